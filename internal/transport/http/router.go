package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"sdlc-quest/internal/app"
)

// SessionCounter reports how many player sessions this instance holds.
type SessionCounter interface {
	Count() int
}

// RouterDeps carries what the HTTP surface needs.
type RouterDeps struct {
	Service  *app.GameService
	Levels   app.LevelRepository
	Sessions SessionCounter
	Logger   *zap.Logger
	CORS     cors.Options
}

// NewRouter wires the REST endpoints and the websocket endpoint.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	api := NewAPIHandler(deps.Service, deps.Levels, deps.Sessions, log)
	ws := NewWSHandler(deps.Service, log)

	r := mux.NewRouter()
	r.Use(requestLogger(log))
	r.HandleFunc("/healthz", api.Health).Methods(http.MethodGet)
	r.HandleFunc("/ws", ws.ServeWS)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/models", api.Models).Methods(http.MethodGet)
	apiRouter.HandleFunc("/levels", api.Levels).Methods(http.MethodGet)
	apiRouter.HandleFunc("/levels/{number:[0-9]+}", api.Level).Methods(http.MethodGet)
	apiRouter.HandleFunc("/players/{id}", api.Player).Methods(http.MethodGet)

	return cors.New(deps.CORS).Handler(r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// the websocket upgrade needs the raw writer for Hijack
			if r.URL.Path == "/ws" {
				log.Debug("websocket request", zap.String("remote", r.RemoteAddr))
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}
