package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/sngm3741/survey-app/api/internal/config"
	adminhttp "github.com/sngm3741/survey-app/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/survey-app/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/survey-app/api/internal/interfaces/http/public"
	pollapp "github.com/sngm3741/survey-app/api/internal/poll/application"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger               *logrus.Logger
	backend              *Backend
	polls                pollapp.PollService
	jwtConfigs           []config.JWTConfig
	jwtAudience          string
	httpClient           *http.Client
	messengerEndpoint    string
	messengerDestination string
	defaultPageSize      int
	maxPageSize          int
	addr                 string
	allowedOrigins       []string
}

type authenticatedUser = commonhttp.AuthenticatedUser

// New は Config とストレージを受け取り、アプリケーションサービスとハンドラを組み立てた Server を返す。
func New(cfg config.Config, backend *Backend) *Server {
	logger := cfg.ServerLog
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		logger:               logger,
		backend:              backend,
		polls:                pollapp.NewPollService(backend.Polls),
		jwtConfigs:           cfg.JWTConfigs(),
		jwtAudience:          strings.TrimSpace(cfg.JWTAudience),
		httpClient:           &http.Client{Timeout: cfg.MessengerTimeout},
		messengerEndpoint:    normaliseBaseURL(cfg.MessengerEndpoint),
		messengerDestination: cfg.MessengerDestination,
		defaultPageSize:      cfg.DefaultPageSize,
		maxPageSize:          cfg.MaxPageSize,
		addr:                 cfg.Addr,
		allowedOrigins:       append([]string(nil), cfg.AllowedOrigins...),
	}
}

// Router はミドルウェアと Public/Admin のルーティングを組み立てる。
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:               s.logger,
		Polls:                s.polls,
		FailedNotifications:  s.backend.Failures,
		DefaultPageSize:      s.defaultPageSize,
		MaxPageSize:          s.maxPageSize,
		HTTPClient:           s.httpClient,
		MessengerEndpoint:    s.messengerEndpoint,
		MessengerDestination: s.messengerDestination,
	})
	publicHandler.Register(router, s.optionalAuthMiddleware)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:              s.logger,
		Polls:               s.polls,
		FailedNotifications: s.backend.Failures,
		DefaultPageSize:     s.defaultPageSize,
		MaxPageSize:         s.maxPageSize,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)
		adminHandler.Register(r)
	})

	return router
}

// Run はHTTPサーバーを起動し、シグナル受信まで待機する。
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// normaliseBaseURL は入力文字列をトリムして末尾スラッシュを削除したURLを返す。
func normaliseBaseURL(input string) string {
	trimmed := strings.TrimSpace(input)
	return strings.TrimRight(trimmed, "/")
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			// プリフライトのみここで応答し、それ以外の OPTIONS はハンドラへ渡す
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	_, ok := allowed[origin]
	return ok
}

// healthHandler はストレージへの疎通確認のみを返す。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if s.backend.Ping != nil {
			if err := s.backend.Ping(ctx); err != nil {
				commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware は Authorization ヘッダーから JWT を検証し、認証済みユーザーをコンテキストへ詰める。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Authorization ヘッダーがありません")
			return
		}
		user, err := s.authenticate(authHeader)
		if err != nil {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(commonhttp.ContextWithUser(r.Context(), user)))
	})
}

// optionalAuthMiddleware はトークンがあれば検証し、無ければ匿名のまま通す。
// 認証設定が無い環境では Authorization ヘッダーを無視する。
func (s *Server) optionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" || len(s.jwtConfigs) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.authenticate(authHeader)
		if err != nil {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(commonhttp.ContextWithUser(r.Context(), user)))
	})
}

func (s *Server) authenticate(authHeader string) (authenticatedUser, error) {
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return authenticatedUser{}, errors.New("Bearer トークンを指定してください")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if tokenString == "" {
		return authenticatedUser{}, errors.New("アクセストークンが空です")
	}
	claims, err := s.parseAuthToken(tokenString)
	if err != nil {
		return authenticatedUser{}, err
	}
	return authenticatedUser{
		ID:       claims.Subject,
		Name:     claims.Name,
		Username: claims.PreferredUsername,
	}, nil
}

// parseAuthToken は複数の JWT 設定を順番に試し、署名検証と Issuer/Audience の整合性を確認する。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("認証設定が構成されていません")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}
		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("アクセストークンが無効です")
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// shutdown はストレージ接続をタイムアウト付きで閉じる。
func (s *Server) shutdown(ctx context.Context) {
	if s.backend.Close == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.backend.Close(shutdownCtx); err != nil {
		s.logger.Printf("ストレージ切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
	return runErr
}
