package admin

import (
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	pollapp "github.com/sngm3741/survey-app/api/internal/poll/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger              *logrus.Logger
	polls               pollapp.PollService
	failedNotifications pollapp.FailedNotificationRepository
	defaultPageSize     int
	maxPageSize         int
}

// Config provides dependencies for Handler.
type Config struct {
	Logger              *logrus.Logger
	Polls               pollapp.PollService
	FailedNotifications pollapp.FailedNotificationRepository
	DefaultPageSize     int
	MaxPageSize         int
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		logger:              logger,
		polls:               cfg.Polls,
		failedNotifications: cfg.FailedNotifications,
		defaultPageSize:     cfg.DefaultPageSize,
		maxPageSize:         cfg.MaxPageSize,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/polls", h.pollListHandler())
	r.Get("/notifications/failed", h.failedNotificationListHandler())
}
