package public

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	pollapp "github.com/sngm3741/survey-app/api/internal/poll/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger               *logrus.Logger
	polls                pollapp.PollService
	failedNotifications  pollapp.FailedNotificationRepository
	defaultPageSize      int
	maxPageSize          int
	httpClient           *http.Client
	messengerEndpoint    string
	messengerDestination string
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger               *logrus.Logger
	Polls                pollapp.PollService
	FailedNotifications  pollapp.FailedNotificationRepository
	DefaultPageSize      int
	MaxPageSize          int
	HTTPClient           *http.Client
	MessengerEndpoint    string
	MessengerDestination string
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	maxPageSize := cfg.MaxPageSize
	if maxPageSize < cfg.DefaultPageSize {
		maxPageSize = cfg.DefaultPageSize
	}
	return &Handler{
		logger:               logger,
		polls:                cfg.Polls,
		failedNotifications:  cfg.FailedNotifications,
		defaultPageSize:      cfg.DefaultPageSize,
		maxPageSize:          maxPageSize,
		httpClient:           httpClient,
		messengerEndpoint:    cfg.MessengerEndpoint,
		messengerDestination: cfg.MessengerDestination,
	}
}

// Register mounts all public routes onto the router.
// identify resolves an optional bearer token before poll creation.
func (h *Handler) Register(r chi.Router, identify func(http.Handler) http.Handler) {
	r.With(identify).HandleFunc("/api/polls", h.pollCollectionHandler())
}
