package handlers

import (
	"net/http"

	"github.com/brackethq/tournament-engine/models"
	"github.com/brackethq/tournament-engine/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var stage *models.TournamentStage
	if raw := r.URL.Query().Get("stage"); raw != "" {
		s := models.TournamentStage(raw)
		stage = &s
	}

	matches, err := h.matchService.ListMatches(r.Context(), tournamentID, stage)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, matchID, err := matchParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), tournamentID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) StartMatchHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, matchID, err := matchParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	t, err := h.matchService.StartMatch(r.Context(), tournamentID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": t.MatchByID(matchID)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordScoreHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, matchID, err := matchParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Scores []models.SetScore `json:"scores"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	t, err := h.matchService.RecordScore(r.Context(), tournamentID, matchID, input.Scores)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": t.MatchByID(matchID)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) CompleteMatchHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, matchID, err := matchParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Scores []models.SetScore `json:"scores,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	t, err := h.matchService.CompleteMatch(r.Context(), tournamentID, matchID, input.Scores)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": t.MatchByID(matchID)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) CancelMatchHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, matchID, err := matchParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	t, err := h.matchService.CancelMatch(r.Context(), tournamentID, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": t.MatchByID(matchID)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func matchParams(r *http.Request) (tournamentID, matchID string, err error) {
	tournamentID, err = urlParam(r, "tournamentID")
	if err != nil {
		return "", "", err
	}
	matchID, err = urlParam(r, "matchID")
	if err != nil {
		return "", "", err
	}
	return tournamentID, matchID, nil
}
