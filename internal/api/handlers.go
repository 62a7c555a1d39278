package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/yourusername/football-elo/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type scoreRequest struct {
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
}

type matchRequest struct {
	EventID    int64     `json:"event_id"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	MatchDate  time.Time `json:"match_date"`
	SeasonYear int       `json:"season_year"`
}

type scoreResponse struct {
	Success            bool    `json:"success"`
	HomeEloChange      float64 `json:"home_elo_change"`
	AwayEloChange      float64 `json:"away_elo_change"`
	HomeEloNew         float64 `json:"home_elo_new"`
	AwayEloNew         float64 `json:"away_elo_new"`
	PredictionsWritten int     `json:"predictions_written"`
	RegenerationError  string  `json:"regeneration_error,omitempty"`
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	teams, err := s.snapshots.Ratings(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.snapshots.Team(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	table, err := s.snapshots.Standings(r.Context(), s.seasonFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	report, err := s.snapshots.Accuracy(r.Context(), s.seasonFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePendingMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.snapshots.PendingMatches(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleCompletedMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.snapshots.CompletedMatches(r.Context(), s.seasonFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	predictions, err := s.snapshots.Predictions(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictions)
}

// handleCreateMatch registers an upcoming fixture so it enters the pending
// set and receives a prediction.
func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.HomeTeam == "" || req.AwayTeam == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "home_team and away_team are required"})
		return
	}
	if req.HomeTeam == req.AwayTeam {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "a team cannot play itself"})
		return
	}
	if req.MatchDate.IsZero() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "match_date is required"})
		return
	}

	season := req.SeasonYear
	if season == 0 {
		season = s.season
	}

	match, err := s.scoring.CreateFixture(r.Context(), &models.Match{
		EventID:      req.EventID,
		HomeTeamName: req.HomeTeam,
		AwayTeamName: req.AwayTeam,
		MatchDate:    req.MatchDate,
		SeasonYear:   season,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, match)
}

// handleSubmitScore accepts the final score for a pending match and runs
// the whole scoring pipeline, returning the computed deltas and new
// ratings for both teams.
func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid match id"})
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.HomeScore == nil || req.AwayScore == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "home_score and away_score are required"})
		return
	}

	result, err := s.scoring.ApplyScore(r.Context(), matchID, *req.HomeScore, *req.AwayScore)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.audit != nil {
		s.audit.LogScoreSubmission(
			matchID.String(),
			result.Update.HomeTeam, result.Update.AwayTeam,
			result.Update.HomeScore, result.Update.AwayScore,
			result.Update.HomeDelta, result.Update.AwayDelta,
			r.RemoteAddr,
		)
	}

	writeJSON(w, http.StatusOK, scoreResponse{
		Success:            true,
		HomeEloChange:      result.Update.HomeDelta,
		AwayEloChange:      result.Update.AwayDelta,
		HomeEloNew:         result.Update.HomeNewRating,
		AwayEloNew:         result.Update.AwayNewRating,
		PredictionsWritten: result.PredictionsWritten,
		RegenerationError:  result.RegenerationError,
	})
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	written, err := s.regen.RegenerateAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":               true,
		"predictions_generated": written,
	})
}

// seasonFrom reads an optional season query parameter, defaulting to the
// configured season.
func (s *Server) seasonFrom(r *http.Request) int {
	if raw := r.URL.Query().Get("season"); raw != "" {
		if season, err := strconv.Atoi(raw); err == nil {
			return season
		}
	}
	return s.season
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrInvalidScore):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrMatchCompleted), errors.Is(err, models.ErrDuplicateKey):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrMissingKCap), errors.Is(err, models.ErrMissingParams):
		s.logger.WithError(err).Error("Configuration error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		s.logger.WithError(err).Error("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
