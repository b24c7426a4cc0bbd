package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/shafinali-ops/BioCare-sub002/internal/common"
)

type errorResponse struct {
	Error string           `json:"error"`
	Code  common.ErrorCode `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("api: failed to encode response: %v", err)
	}
}

// writeError maps the service error taxonomy onto HTTP statuses. A
// Conflict must be distinguishable from transport failures so clients
// can react instead of retrying blindly.
func writeError(w http.ResponseWriter, err error) {
	code := common.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case common.CodeInvalidArgument:
		status = http.StatusBadRequest
	case common.CodeForbidden:
		status = http.StatusForbidden
	case common.CodeNotFound:
		status = http.StatusNotFound
	case common.CodeConflict:
		status = http.StatusConflict
	case common.CodeInvalidState:
		status = http.StatusUnprocessableEntity
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("api: internal error: %v", err)
		message = "internal error"
	}

	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, common.InvalidArgumentf("invalid request body: %v", err))
		return false
	}
	return true
}

func principal(w http.ResponseWriter, r *http.Request) (common.Principal, bool) {
	p, ok := common.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "authorization required", http.StatusUnauthorized)
	}
	return p, ok
}
