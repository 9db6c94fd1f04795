package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"sdlc-quest/internal/app"
	"sdlc-quest/internal/catalog"
	"sdlc-quest/internal/domain"
)

// APIHandler serves the read-only REST endpoints.
type APIHandler struct {
	service  *app.GameService
	levels   app.LevelRepository
	sessions SessionCounter
	log      *zap.Logger
}

func NewAPIHandler(service *app.GameService, levels app.LevelRepository, sessions SessionCounter, log *zap.Logger) *APIHandler {
	return &APIHandler{service: service, levels: levels, sessions: sessions, log: log}
}

type levelSummary struct {
	Number             int    `json:"number"`
	Title              string `json:"title"`
	Subjects           int    `json:"subjects"`
	FirstTryBonus      int    `json:"firstTryBonus"`
	RetryBonus         int    `json:"retryBonus"`
	TimeLimit          int    `json:"timeLimit,omitempty"`
	TimeBonusPerSecond int    `json:"timeBonusPerSecond,omitempty"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if h.sessions != nil {
		resp.Sessions = h.sessions.Count()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) Models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Models())
}

func (h *APIHandler) Levels(w http.ResponseWriter, r *http.Request) {
	summaries := make([]levelSummary, 0, domain.LevelCount)
	for n := 1; n <= domain.LevelCount; n++ {
		level, err := h.levels.GetLevel(r.Context(), n)
		if err != nil {
			h.writeError(w, err)
			return
		}
		summaries = append(summaries, levelSummary{
			Number:             level.Number,
			Title:              level.Title,
			Subjects:           len(level.Subjects),
			FirstTryBonus:      level.FirstTryBonus,
			RetryBonus:         level.RetryBonus,
			TimeLimit:          level.TimeLimit,
			TimeBonusPerSecond: level.TimeBonusPerSecond,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

// Level returns one catalog with answers and critiques removed.
func (h *APIHandler) Level(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil || number < 1 || number > domain.LevelCount {
		h.writeError(w, domain.ErrLevelNotFound)
		return
	}
	level, err := h.levels.GetLevel(r.Context(), number)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, level.Public())
}

func (h *APIHandler) Player(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrLevelNotFound), errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	default:
		h.log.Error("api request failed", zap.Error(err))
	}
	writeJSON(w, status, errorPayload{Code: errorCode(err), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
