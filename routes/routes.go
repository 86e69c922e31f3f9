package routes

import (
	"github.com/brackethq/tournament-engine/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	courtHandler *handlers.CourtHandler,
	stageHandler *handlers.StageHandler,
	formatHandler *handlers.FormatHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/formats", func(r chi.Router) {
		r.Get("/", formatHandler.ListFormatsHandler)
		r.Get("/{format}", formatHandler.DescribeFormatHandler)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListTournamentsHandler)
		r.Post("/", tournamentHandler.CreateTournamentHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetTournamentHandler)
			r.Delete("/", tournamentHandler.DeleteTournamentHandler)
			r.Get("/summary", tournamentHandler.TournamentSummaryHandler)
			r.Get("/standings", formatHandler.StandingsHandler)
			r.Get("/standings/groups", formatHandler.GroupStandingsHandler)
			r.Get("/validate", formatHandler.ValidateTournamentHandler)

			r.Route("/teams", func(r chi.Router) {
				r.Post("/", tournamentHandler.AddTeamHandler)
				r.Delete("/{teamID}", tournamentHandler.RemoveTeamHandler)
				r.Put("/{teamID}/seed", tournamentHandler.SetTeamSeedHandler)
			})

			r.Route("/courts", func(r chi.Router) {
				r.Get("/", courtHandler.ListCourtsHandler)
				r.Post("/", tournamentHandler.AddCourtHandler)
				r.Post("/auto-assign", courtHandler.AutoAssignCourtsHandler)
				r.Post("/{courtID}/assign", courtHandler.AssignCourtHandler)
				r.Post("/{courtID}/free", courtHandler.FreeCourtHandler)
				r.Put("/{courtID}/status", courtHandler.SetCourtStatusHandler)
			})

			r.Route("/matches", func(r chi.Router) {
				r.Get("/", matchHandler.ListMatchesHandler)
				r.Get("/{matchID}", matchHandler.GetMatchHandler)
				r.Post("/{matchID}/start", matchHandler.StartMatchHandler)
				r.Put("/{matchID}/score", matchHandler.RecordScoreHandler)
				r.Post("/{matchID}/complete", matchHandler.CompleteMatchHandler)
				r.Post("/{matchID}/cancel", matchHandler.CancelMatchHandler)
			})

			r.Route("/stage", func(r chi.Router) {
				r.Get("/validate", stageHandler.ValidateTransitionHandler)
				r.Post("/advance", stageHandler.AdvanceStageHandler)
				r.Post("/next-round", stageHandler.GenerateNextRoundHandler)
			})
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
