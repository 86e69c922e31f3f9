package handlers

import (
	"net/http"

	"github.com/brackethq/tournament-engine/models"
	"github.com/brackethq/tournament-engine/services"
)

type FormatHandler struct {
	formatService services.FormatService
}

func NewFormatHandler(formatService services.FormatService) *FormatHandler {
	return &FormatHandler{formatService: formatService}
}

func (h *FormatHandler) ListFormatsHandler(w http.ResponseWriter, r *http.Request) {
	formats := h.formatService.ListFormats()
	if err := writeJSON(w, http.StatusOK, jsonResponse{"formats": formats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FormatHandler) DescribeFormatHandler(w http.ResponseWriter, r *http.Request) {
	name, err := urlParam(r, "format")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	info, err := h.formatService.Describe(models.TournamentFormat(name))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"format": info}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FormatHandler) ValidateTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.formatService.ValidateTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"validation": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FormatHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.formatService.Standings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FormatHandler) GroupStandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tables, err := h.formatService.GroupStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"groups": tables}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
