package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"gatortrader/internal/config"
	"gatortrader/internal/service"
	"gatortrader/internal/storage"
)

// ContextKey is the type for request context values set by the middleware
// chain.
type ContextKey string

const (
	ContextKeyUserID ContextKey = "userID"
	ContextKeyRole   ContextKey = "role"
)

// RoleModerator is the role claim that grants the moderation capability.
const RoleModerator = "moderator"

// HealthChecker is what the health endpoint needs from the database.
type HealthChecker interface {
	HealthCheck() error
}

type Handlers struct {
	PostService    service.PostService
	MessageService service.MessageService
	ImageStore     storage.ImageStore
	Health         HealthChecker
	Cfg            *config.Config
	Validate       *validator.Validate
}

func NewHandlers(services *service.Service, imageStore storage.ImageStore, health HealthChecker, config *config.Config) *Handlers {
	return &Handlers{
		PostService:    services.Post,
		MessageService: services.Message,
		ImageStore:     imageStore,
		Health:         health,
		Cfg:            config,
		Validate:       validator.New(),
	}
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Health.HealthCheck(); err != nil {
		WriteError(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	writeSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// moderatorToken is the transport-minted moderator capability. It exists
// only when the authenticated role claim is RoleModerator.
type moderatorToken struct {
	id int64
}

func (m moderatorToken) ModeratorID() int64 { return m.id }

// moderatorFrom returns the caller's moderator capability, or nil when the
// request is not an authenticated moderator.
func moderatorFrom(r *http.Request) service.Moderator {
	role, _ := r.Context().Value(ContextKeyRole).(string)
	if role != RoleModerator {
		return nil
	}
	userID, _ := r.Context().Value(ContextKeyUserID).(int64)
	return moderatorToken{id: userID}
}
