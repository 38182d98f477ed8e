package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/codenames/internal/config"
	"github.com/robalobadob/codenames/internal/game"
	"github.com/robalobadob/codenames/internal/service"
	"github.com/robalobadob/codenames/internal/storage/sqlite"
	"github.com/robalobadob/codenames/internal/validate"
	"github.com/robalobadob/codenames/internal/words"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "test-secret",
		JWTExpiresDays: 1,
		CookieName:     "codenames_token",
		ClientOrigin:   "http://localhost:5173",
		RequestTimeout: 5 * time.Second,
		AppEnv:         "test",
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	raw := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		raw = append(raw, "word"+string(rune('a'+i/26))+string(rune('a'+i%26)))
	}
	svc := service.New(store, words.New(raw), nil)
	return New(testConfig(), svc, store)
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func signup(t *testing.T, s *Server, username string) string {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/auth/signup", "", credentials{Username: username, Password: "password123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	c := sessionCookie(rec, s.cfg.CookieName)
	require.NotNil(t, c)
	return c.Value
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, s, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "alice")

	rec := do(t, s, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[authUser](t, rec)
	assert.Equal(t, "alice", me.Username)

	rec = do(t, s, http.MethodPost, "/auth/signup", "", credentials{Username: "ALICE", Password: "password123"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/signup", "", credentials{Username: "al", Password: "password123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/login", "", credentials{Username: "alice", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/auth/login", "", credentials{Username: "alice", Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, sessionCookie(rec, s.cfg.CookieName))

	rec = do(t, s, http.MethodPost, "/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c := sessionCookie(rec, s.cfg.CookieName)
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)

	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/auth/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/auth/me", "garbage", nil).Code)
}

func TestCookieAuth(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "alice")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: s.cfg.CookieName, Value: token})
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGamesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/games", "", createGameReq{Name: "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownGame(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "alice")

	rec := do(t, s, http.MethodGet, "/games/missing", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	res := decode[errorRes](t, rec)
	assert.Equal(t, string(service.KindNotFound), res.Error)
}

func TestInvalidFormat(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "alice")

	rec := do(t, s, http.MethodPost, "/games", token, createGameReq{Name: "x", Format: "MARATHON"})
	require.Equal(t, http.StatusConflict, rec.Code)
	res := decode[errorRes](t, rec)
	assert.True(t, res.Details.Has(validate.CodeFormatInvalid), res.Details)
}

type seat struct {
	token string
	me    game.PlayerView
}

func TestGameFlow(t *testing.T) {
	s := newTestServer(t)
	tokens := map[string]string{}
	for _, u := range []string{"alice", "bob", "carol", "dave"} {
		tokens[u] = signup(t, s, u)
	}

	rec := do(t, s, http.MethodPost, "/games", tokens["alice"], createGameReq{Name: "friday", Format: game.FormatQuick})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[game.View](t, rec)
	assert.Equal(t, "alice", created.Me.DisplayName)
	base := "/games/" + created.Game.PublicID

	for _, u := range []string{"bob", "carol", "dave"} {
		rec = do(t, s, http.MethodPost, base+"/join", tokens[u], joinReq{})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	// Only seated users may read the game.
	outsider := signup(t, s, "mallory")
	assert.Equal(t, http.StatusForbidden, do(t, s, http.MethodGet, base, outsider, nil).Code)

	for _, path := range []string{"/start", "/rounds", "/rounds/current/deal", "/rounds/current/start"} {
		rec = do(t, s, http.MethodPost, base+path, tokens["alice"], nil)
		require.Equal(t, http.StatusOK, rec.Code, "%s: %s", path, rec.Body.String())
	}

	// Find who holds which seat this round.
	seats := map[game.Role]map[int64]seat{game.RoleCodemaster: {}, game.RoleCodebreaker: {}}
	var active int64
	var board []game.CardView
	for _, tok := range tokens {
		rec = do(t, s, http.MethodGet, base, tok, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		v := decode[game.View](t, rec)
		seats[v.Me.Role][v.Me.TeamID] = seat{token: tok, me: v.Me}
		for _, turn := range v.Round.Turns {
			if turn.Status == game.TurnActive {
				active = turn.TeamID
			}
		}
		if v.Me.Role == game.RoleCodemaster {
			board = v.Round.Cards
		}
	}
	require.NotZero(t, active)
	require.Len(t, seats[game.RoleCodemaster], 2)
	require.Len(t, seats[game.RoleCodebreaker], 2)
	var waiting int64
	for id := range seats[game.RoleCodebreaker] {
		if id != active {
			waiting = id
		}
	}

	var target int64
	for _, c := range board {
		if *c.Type == game.CardTeam && *c.TeamID == active {
			target = c.ID
			break
		}
	}
	require.NotZero(t, target)

	// Guessing before a clue is an invalid state.
	rec = do(t, s, http.MethodPost, base+"/guess", seats[game.RoleCodebreaker][active].token, guessReq{CardID: target})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, base+"/clue", seats[game.RoleCodemaster][active].token, clueReq{Word: "ocean", Count: 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, base+"/guess", seats[game.RoleCodebreaker][waiting].token, guessReq{CardID: target})
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	res := decode[errorRes](t, rec)
	assert.Equal(t, string(service.KindUnauthorized), res.Error)
	assert.True(t, res.Details.Has(validate.CodeNotYourTurn), res.Details)

	rec = do(t, s, http.MethodPost, base+"/guess", seats[game.RoleCodebreaker][active].token, guessReq{CardID: target})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var guess struct {
		CardID     int64           `json:"cardId"`
		Outcome    game.Outcome    `json:"outcome"`
		Transition game.Transition `json:"transition"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &guess))
	assert.Equal(t, target, guess.CardID)
	assert.Equal(t, game.OutcomeCorrectTeamCard, guess.Outcome)
	assert.Equal(t, game.TransitionContinue, guess.Transition.Kind)

	rec = do(t, s, http.MethodPost, base+"/end-turn", seats[game.RoleCodebreaker][active].token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decode[game.View](t, rec)
	var next int64
	for _, turn := range v.Round.Turns {
		if turn.Status == game.TurnActive {
			next = turn.TeamID
		}
	}
	assert.Equal(t, waiting, next)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		kind service.Kind
		want int
	}{
		{service.KindNotFound, http.StatusNotFound},
		{service.KindUnauthorized, http.StatusForbidden},
		{service.KindInvalidState, http.StatusConflict},
		{service.KindConflict, http.StatusConflict},
		{service.KindDependency, http.StatusServiceUnavailable},
		{service.KindInternal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(string(c.kind), func(t *testing.T) {
			assert.Equal(t, c.want, statusFor(c.kind))
		})
	}
}

func TestWriteFailureHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	writeFailure(rec, req, fmt.Errorf("boom"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	res := decode[errorRes](t, rec)
	assert.Equal(t, string(service.KindInternal), res.Error)
	assert.Equal(t, "internal error", res.Message)
}
