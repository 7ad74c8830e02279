package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"github.com/AdamBeresnev/courtkeeper/internal/httputil"
	"github.com/AdamBeresnev/courtkeeper/internal/middleware"
	"github.com/AdamBeresnev/courtkeeper/internal/service"
	"github.com/AdamBeresnev/courtkeeper/internal/utils"
	"github.com/AdamBeresnev/courtkeeper/views"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type createTournamentRequest struct {
	Name        string `json:"name"`
	CourtCount  *int   `json:"court_count"`
	PairingMode string `json:"pairing_mode"`
	TeamSize    int    `json:"team_size"`
}

type registerPlayerRequest struct {
	Name       string  `json:"name"`
	SkillLevel float64 `json:"skill_level"`
}

type pairingModeRequest struct {
	PairingMode string `json:"pairing_mode"`
}

type courtsRequest struct {
	CourtCount int `json:"court_count"`
}

type scoreRequest struct {
	ScoreA *int `json:"score_a"`
	ScoreB *int `json:"score_b"`
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httputil.BadRequest(w, "Invalid JSON body", err)
		return false
	}
	return true
}

func newRouter(manager *service.Manager, logger *slog.Logger, defaults createTournamentRequest) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/tournaments", func(w http.ResponseWriter, r *http.Request) {
		var req createTournamentRequest
		if !decode(w, r, &req) {
			return
		}
		if req.CourtCount == nil {
			req.CourtCount = defaults.CourtCount
		}
		if req.PairingMode == "" {
			req.PairingMode = defaults.PairingMode
		}
		t, err := manager.CreateTournament(r.Context(), service.TournamentInput{
			Name:        req.Name,
			CourtCount:  *req.CourtCount,
			PairingMode: req.PairingMode,
			TeamSize:    req.TeamSize,
		})
		if err != nil {
			httputil.Error(w, r, err)
			return
		}
		w.Header().Set("Location", "/tournaments/"+t.ID)
		httputil.WriteJSON(w, http.StatusCreated, t)
	})

	r.Route("/tournaments/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			t, err := manager.GetTournament(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, t)
		})

		r.Put("/pairing-mode", func(w http.ResponseWriter, r *http.Request) {
			var req pairingModeRequest
			if !decode(w, r, &req) {
				return
			}
			t, err := manager.SetPairingMode(r.Context(), chi.URLParam(r, "id"), req.PairingMode)
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, t)
		})

		r.Put("/courts", func(w http.ResponseWriter, r *http.Request) {
			var req courtsRequest
			if !decode(w, r, &req) {
				return
			}
			t, err := manager.SetCourtCount(r.Context(), chi.URLParam(r, "id"), req.CourtCount)
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, t)
		})

		r.Post("/complete", func(w http.ResponseWriter, r *http.Request) {
			v, err := manager.CompleteTournament(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, v)
		})

		r.Get("/players", func(w http.ResponseWriter, r *http.Request) {
			players, err := manager.ListPlayers(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, players)
		})

		r.Post("/players", func(w http.ResponseWriter, r *http.Request) {
			var req registerPlayerRequest
			if !decode(w, r, &req) {
				return
			}
			p, err := manager.RegisterPlayer(r.Context(), chi.URLParam(r, "id"), req.Name, req.SkillLevel)
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			httputil.WriteJSON(w, http.StatusCreated, p)
		})

		r.Post("/players/{playerID}/deactivate", func(w http.ResponseWriter, r *http.Request) {
			p, err := manager.DeactivatePlayer(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "playerID"))
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, p)
		})

		r.Post("/rounds", func(w http.ResponseWriter, r *http.Request) {
			round, err := manager.StartRound(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			httputil.WriteJSON(w, http.StatusCreated, round)
		})

		r.Get("/matches", func(w http.ResponseWriter, r *http.Request) {
			var round *int
			if raw := r.URL.Query().Get("round"); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil || n < 1 {
					httputil.BadRequest(w, "round must be a positive integer", err)
					return
				}
				round = utils.Ptr(n)
			}
			matches, err := manager.ListMatches(r.Context(), chi.URLParam(r, "id"), round)
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, matches)
		})

		r.Post("/matches/{matchID}/score", func(w http.ResponseWriter, r *http.Request) {
			var req scoreRequest
			if !decode(w, r, &req) {
				return
			}
			if req.ScoreA == nil || req.ScoreB == nil {
				httputil.BadRequest(w, "score_a and score_b are required", nil)
				return
			}
			v, err := manager.ReportScore(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "matchID"), *req.ScoreA, *req.ScoreB)
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, v)
		})

		r.Post("/matches/{matchID}/cancel", func(w http.ResponseWriter, r *http.Request) {
			m, err := manager.CancelMatch(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "matchID"))
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, m)
		})

		r.Get("/standings", func(w http.ResponseWriter, r *http.Request) {
			v, err := manager.GetStandings(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, v)
		})

		r.Get("/standings.csv", func(w http.ResponseWriter, r *http.Request) {
			v, err := manager.GetStandings(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", `attachment; filename="standings-`+v.Tournament.ID+`.csv"`)
			if err := views.WriteStandingsCSV(w, v.Standings); err != nil {
				middleware.LoggerFromContext(r.Context()).Error("failed to write standings csv", "error", err)
			}
		})

		r.Get("/standings.html", func(w http.ResponseWriter, r *http.Request) {
			o, err := manager.GetOverview(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				httputil.Error(w, r, err)
				return
			}
			page := views.StandingsPage(o.Tournament, o.Standings, views.PrepareRoundData(o.Players, o.Matches))
			if err := views.Render(w, r, page); err != nil {
				middleware.LoggerFromContext(r.Context()).Error("failed to render standings page", "error", err)
			}
		})
	})

	return r
}

// tournamentDefaults converts configured defaults into a request template.
func tournamentDefaults(courts int, mode string) createTournamentRequest {
	if _, ok := game.ParsePairingMode(mode); !ok {
		mode = string(game.PairingBalanced)
	}
	return createTournamentRequest{CourtCount: utils.Ptr(courts), PairingMode: mode}
}
