package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/middleware"
	"nfl-pickem-go/models"
	"nfl-pickem-go/services"
)

// PickHandler exposes the pick engine over a thin JSON API
type PickHandler struct {
	pickService        *services.PickService
	scoringService     *services.ScoringService
	leaderboardService *services.LeaderboardService
	currentSeason      int
	logger             *logging.Logger
}

// NewPickHandler creates a pick API handler
func NewPickHandler(pickService *services.PickService, scoringService *services.ScoringService, leaderboardService *services.LeaderboardService, currentSeason int) *PickHandler {
	return &PickHandler{
		pickService:        pickService,
		scoringService:     scoringService,
		leaderboardService: leaderboardService,
		currentSeason:      currentSeason,
		logger:             logging.WithPrefix("PickHandler"),
	}
}

// RegisterRoutes wires the API routes onto the router
func (h *PickHandler) RegisterRoutes(r *mux.Router, auth *middleware.AuthMiddleware) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.RequireAuth)

	api.HandleFunc("/picks", h.SubmitPick).Methods("POST")
	api.HandleFunc("/picks/bulk", h.SubmitBulkPicks).Methods("POST")
	api.HandleFunc("/picks", h.GetMyPicks).Methods("GET")
	api.HandleFunc("/games", h.GetWeekGames).Methods("GET")
	api.HandleFunc("/leaderboard", h.GetLeaderboard).Methods("GET")
	api.HandleFunc("/admin/score", h.ScoreWeek).Methods("POST")
}

type submitPickRequest struct {
	GameID          string `json:"game_id"`
	TeamID          string `json:"team_id"`
	TiebreakerScore *int   `json:"tiebreaker_score,omitempty"`
}

type bulkPicksRequest struct {
	Picks []services.PickSubmission `json:"picks"`
}

// SubmitPick handles POST /api/picks
func (h *PickHandler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req submitPickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pick, err := h.pickService.SubmitPick(r.Context(), userID, req.GameID, req.TeamID, req.TiebreakerScore)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, pick)
}

// SubmitBulkPicks handles POST /api/picks/bulk
func (h *PickHandler) SubmitBulkPicks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req bulkPicksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	picks, err := h.pickService.SubmitBulkPicks(r.Context(), userID, req.Picks)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, picks)
}

// GetMyPicks handles GET /api/picks?season=&week=
func (h *PickHandler) GetMyPicks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	season, week, err := h.seasonWeekParams(r, true)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	picks, err := h.pickService.GetUserPicksForWeek(r.Context(), userID, season, *week)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, picks)
}

// GetWeekGames handles GET /api/games?season=&week=
func (h *PickHandler) GetWeekGames(w http.ResponseWriter, r *http.Request) {
	season, week, err := h.seasonWeekParams(r, true)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	games, err := h.pickService.GetWeekGames(r.Context(), season, *week)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, games)
}

// GetLeaderboard handles GET /api/leaderboard?season=&week=
// Week is optional; without it, season-long standings are returned. League
// scoping happens in-process where the league layer calls the engine, so the
// HTTP surface serves the global scope only.
func (h *PickHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	season, week, err := h.seasonWeekParams(r, false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.leaderboardService.BuildLeaderboard(r.Context(), models.GlobalScope(), season, week)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, entries)
}

// ScoreWeek handles POST /api/admin/score?season=&week=
func (h *PickHandler) ScoreWeek(w http.ResponseWriter, r *http.Request) {
	season, week, err := h.seasonWeekParams(r, true)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.scoringService.ScoreWeek(r.Context(), season, *week)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// seasonWeekParams parses season (defaulting to the current season) and week
// query parameters
func (h *PickHandler) seasonWeekParams(r *http.Request, weekRequired bool) (int, *int, error) {
	season := h.currentSeason
	if s := r.URL.Query().Get("season"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			return 0, nil, &badParamError{"season"}
		}
		season = parsed
	}

	var week *int
	if s := r.URL.Query().Get("week"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			return 0, nil, &badParamError{"week"}
		}
		week = &parsed
	}
	if weekRequired && week == nil {
		return 0, nil, &badParamError{"week"}
	}

	return season, week, nil
}

type badParamError struct{ name string }

func (e *badParamError) Error() string { return "invalid or missing parameter: " + e.name }

func (h *PickHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Errorf("Failed to encode response: %v", err)
	}
}

// writeError maps service errors onto HTTP status codes
func (h *PickHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case services.IsInvalidArgument(err):
		status = http.StatusBadRequest
	case services.IsNotFound(err):
		status = http.StatusNotFound
	case services.IsLocked(err):
		status = http.StatusForbidden
	default:
		h.logger.Errorf("Internal error: %v", err)
		http.Error(w, "Internal server error", status)
		return
	}

	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
