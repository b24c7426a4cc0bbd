package di

import (
	"gorm.io/gorm"

	"github.com/shafinali-ops/BioCare-sub002/internal/api"
	"github.com/shafinali-ops/BioCare-sub002/internal/call"
	"github.com/shafinali-ops/BioCare-sub002/internal/chat"
	"github.com/shafinali-ops/BioCare-sub002/internal/config"
	"github.com/shafinali-ops/BioCare-sub002/internal/dbmysql"
	"github.com/shafinali-ops/BioCare-sub002/internal/gateway"
	"github.com/shafinali-ops/BioCare-sub002/internal/notif"
	"github.com/shafinali-ops/BioCare-sub002/internal/presence"
)

// Container holds the wired application graph.
type Container struct {
	Config   *config.Config
	DB       *gorm.DB
	Hub      *gateway.Hub
	Presence presence.PresenceService
	Chat     chat.ChatService
	Calls    call.CallService
	Notifs   notif.NotificationService
	Handlers *api.Handlers
}

// BuildContainer wires repositories, services, the gateway and the HTTP
// handlers together.
func BuildContainer(cfg *config.Config) (*Container, error) {
	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		return nil, err
	}

	presenceSvc := presence.NewPresenceService(presence.NewPresenceRepository(db))
	hub := gateway.NewHub(cfg.Gateway, presenceSvc)

	notifSvc := notif.NewNotificationService(
		notif.NewNotificationRepository(db),
		hub,
		cfg.Notification.Workers,
		cfg.Notification.ChannelBufferSize,
	)
	chatSvc := chat.NewChatService(chat.NewChatRepository(db), hub)
	callSvc := call.NewCallService(call.NewCallRepository(db), hub, notifSvc, cfg.RingTimeoutDuration())

	handlers := api.NewHandlers(chatSvc, callSvc, presenceSvc, notifSvc, hub)

	return &Container{
		Config:   cfg,
		DB:       db,
		Hub:      hub,
		Presence: presenceSvc,
		Chat:     chatSvc,
		Calls:    callSvc,
		Notifs:   notifSvc,
		Handlers: handlers,
	}, nil
}

// Close tears down background workers and live channels.
func (c *Container) Close() {
	c.Calls.Shutdown()
	c.Notifs.Shutdown()
	c.Hub.Close()
}
