// internal/httpserver/games.go
//
// Game endpoints. Every route requires auth; the caller's user ID is the
// requester for the service action and {gameID} is the game's public ID.
//
//	POST /games                           create a lobby
//	GET  /games/{gameID}                  projected state for the caller
//	POST /games/{gameID}/join|leave|start lobby
//	POST /games/{gameID}/rounds           create the next round
//	POST /games/{gameID}/rounds/current/deal|start
//	POST /games/{gameID}/clue|guess|end-turn

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/service"
)

type createGameReq struct {
	Name        string      `json:"name"`
	Format      game.Format `json:"format"`
	DisplayName string      `json:"displayName"`
}

type joinReq struct {
	DisplayName string `json:"displayName"`
	TeamID      int64  `json:"teamId"`
	Spectate    bool   `json:"spectate"`
}

type clueReq struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type guessReq struct {
	CardID int64 `json:"cardId"`
}

func (s *Server) mountGameRoutes() {
	s.r.Route("/games", func(r chi.Router) {
		r.Use(s.requireAuth())
		r.Post("/", s.handleCreateGame)
		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", s.handleGameState)
			r.Post("/join", s.handleJoin)
			r.Post("/leave", s.handleLeave)
			r.Post("/start", s.viewAction(s.svc.StartGame))
			r.Post("/rounds", s.viewAction(s.svc.CreateRound))
			r.Post("/rounds/current/deal", s.viewAction(s.svc.DealCards))
			r.Post("/rounds/current/start", s.viewAction(s.svc.StartRound))
			r.Post("/clue", s.handleClue)
			r.Post("/guess", s.handleGuess)
			r.Post("/end-turn", s.viewAction(s.svc.EndTurn))
		})
	})
}

// viewAction adapts a body-less service action that returns the caller's view.
func (s *Server) viewAction(fn func(ctx context.Context, gameID, userID string) (game.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fn(r.Context(), chi.URLParam(r, "gameID"), currentUser(r).ID)
		if err != nil {
			writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	me := currentUser(r)
	if req.DisplayName == "" {
		req.DisplayName = me.Username
	}
	v, err := s.svc.CreateGame(r.Context(), me.ID, req.DisplayName, req.Name, req.Format)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.GameState(r.Context(), chi.URLParam(r, "gameID"), currentUser(r).ID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	me := currentUser(r)
	if req.DisplayName == "" {
		req.DisplayName = me.Username
	}
	v, err := s.svc.JoinGame(r.Context(), chi.URLParam(r, "gameID"), me.ID, service.JoinRequest{
		DisplayName: req.DisplayName,
		TeamID:      req.TeamID,
		Spectate:    req.Spectate,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.LeaveGame(r.Context(), chi.URLParam(r, "gameID"), currentUser(r).ID); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleClue(w http.ResponseWriter, r *http.Request) {
	var req clueReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	v, err := s.svc.GiveClue(r.Context(), chi.URLParam(r, "gameID"), currentUser(r).ID, req.Word, req.Count)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	res, err := s.svc.MakeGuess(r.Context(), chi.URLParam(r, "gameID"), currentUser(r).ID, req.CardID)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
