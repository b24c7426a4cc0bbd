package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// Call signaling policy
	Call CallConfig `json:"call"`

	// Realtime gateway tuning
	Gateway GatewayConfig `json:"gateway"`

	// Notification fan-out configuration
	Notification NotificationConfig `json:"notification"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port           string   `json:"port"`
	Host           string   `json:"host"`
	ReadTimeout    int      `json:"read_timeout"`
	WriteTimeout   int      `json:"write_timeout"`
	AllowedOrigins []string `json:"allowed_origins"`
	Environment    string   `json:"environment"` // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// CallConfig contains call signaling policy constants
type CallConfig struct {
	// RingTimeout is how long a call may stay ringing before it is
	// flipped to missed. Seconds.
	RingTimeout int `json:"ring_timeout"`
}

// GatewayConfig contains websocket gateway tuning
type GatewayConfig struct {
	EgressBufferSize int `json:"egress_buffer_size"` // per-client send queue
	WriteWait        int `json:"write_wait"`         // seconds
	PongWait         int `json:"pong_wait"`          // seconds
	MaxMessageSize   int `json:"max_message_size"`   // bytes, inbound
}

// NotificationConfig contains notification fan-out configuration
type NotificationConfig struct {
	Workers           int `json:"workers"`             // worker goroutines for async intake
	ChannelBufferSize int `json:"channel_buffer_size"` // async intake buffer
}

// Load builds the configuration from environment variables with
// development defaults. Call godotenv.Load before this in main.
func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           envOr("SERVER_PORT", "8080"),
			Host:           envOr("SERVER_HOST", ""),
			ReadTimeout:    envIntOr("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   envIntOr("SERVER_WRITE_TIMEOUT", 15),
			AllowedOrigins: []string{envOr("ALLOWED_ORIGIN", "*")},
			Environment:    envOr("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         envOr("DB_HOST", "localhost"),
			Port:         envOr("DB_PORT", "3306"),
			Username:     envOr("DB_USER", "root"),
			Password:     os.Getenv("DB_PASSWORD"),
			DatabaseName: envOr("DB_NAME", "biocare_comms"),
			MaxOpenConns: envIntOr("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envIntOr("DB_MAX_IDLE_CONNS", 5),
		},
		Call: CallConfig{
			RingTimeout: envIntOr("CALL_RING_TIMEOUT", 60),
		},
		Gateway: GatewayConfig{
			EgressBufferSize: envIntOr("GATEWAY_EGRESS_BUFFER", 64),
			WriteWait:        envIntOr("GATEWAY_WRITE_WAIT", 10),
			PongWait:         envIntOr("GATEWAY_PONG_WAIT", 60),
			MaxMessageSize:   envIntOr("GATEWAY_MAX_MESSAGE_SIZE", 4096),
		},
		Notification: NotificationConfig{
			Workers:           envIntOr("NOTIFICATION_WORKERS", 4),
			ChannelBufferSize: envIntOr("NOTIFICATION_BUFFER", 1000),
		},
	}
	return cfg
}

// RingTimeoutDuration returns the ring timeout as a duration.
func (cfg *Config) RingTimeoutDuration() time.Duration {
	return time.Duration(cfg.Call.RingTimeout) * time.Second
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
