package validate

import (
	"fmt"
	"math"
	"testing"

	"github.com/robalobadob/codenames/internal/game"
)

// playing builds an in-progress round between Red (1) and Blue (2). Red holds
// the active turn; the requester is Red's codebreaker unless changed.
func playing() *game.Aggregate {
	cards := make([]game.Card, 0, game.BoardSize)
	for i, s := range game.Slots(1, 2) {
		cards = append(cards, game.Card{
			ID:       int64(i + 1),
			Position: i,
			Word:     fmt.Sprintf("card%c%c", 'a'+i/26, 'a'+i%26),
			Type:     s.Type,
			TeamID:   s.TeamID,
		})
	}
	red := []game.Player{
		{ID: 1, UserID: "alice", TeamID: 1, Role: game.RoleCodemaster},
		{ID: 3, UserID: "carol", TeamID: 1, Role: game.RoleCodebreaker},
	}
	blue := []game.Player{
		{ID: 2, UserID: "bob", TeamID: 2, Role: game.RoleCodemaster},
		{ID: 4, UserID: "dave", TeamID: 2, Role: game.RoleCodebreaker},
	}
	return &game.Aggregate{
		Game: game.Game{Status: game.GameInProgress, Format: game.FormatQuick},
		Teams: []game.Team{
			{ID: 1, Name: "Red", Players: red},
			{ID: 2, Name: "Blue", Players: blue},
		},
		CurrentRound: &game.Round{
			ID:     10,
			Number: 1,
			Status: game.RoundInProgress,
			Cards:  cards,
			Turns:  []game.Turn{{ID: 100, TeamID: 1, Status: game.TurnActive}},
		},
		History:   []game.RoundSummary{{ID: 10, Number: 1, Status: game.RoundInProgress}},
		Requester: game.PlayerContext{UserID: "carol", Player: red[1], Role: game.RoleCodebreaker},
	}
}

func as(a *game.Aggregate, p game.Player) *game.Aggregate {
	a.Requester = game.PlayerContext{UserID: p.UserID, Player: p, Role: p.Role}
	return a
}

func withClue(a *game.Aggregate, word string, count int) *game.Aggregate {
	t := a.ActiveTurn()
	t.Clue = &game.Clue{Word: word, Count: count}
	t.GuessesRemaining = count + 1
	return a
}

func expectCodes(t *testing.T, err error, codes ...string) {
	t.Helper()
	if len(codes) == 0 {
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		return
	}
	es, ok := err.(Errors)
	if !ok {
		t.Fatalf("expected Errors, got %T (%v)", err, err)
	}
	for _, c := range codes {
		if !es.Has(c) {
			t.Fatalf("expected code %s in %v", c, es)
		}
	}
	if len(es) != len(codes) {
		t.Fatalf("expected exactly %v, got %v", codes, es)
	}
}

func TestCheckNilState(t *testing.T) {
	v, err := Check(nil, EndTurn{})
	expectCodes(t, err, CodeStateMissing)
	if v.Ok() {
		t.Fatal("failed check must not produce a proof")
	}
}

func TestCheckProducesProof(t *testing.T) {
	a := withClue(playing(), "ocean", 1)
	v, err := Check(a, MakeGuess{CardID: 1})
	expectCodes(t, err)
	if !v.Ok() || v.State() != a || v.Action().CardID != 1 {
		t.Fatalf("bad proof: %+v", v)
	}
}

func TestGiveClue(t *testing.T) {
	codemaster := func() *game.Aggregate {
		a := playing()
		return as(a, a.Teams[0].Players[0])
	}
	cases := []struct {
		name  string
		a     *game.Aggregate
		word  string
		count int
		codes []string
	}{
		{"ok", codemaster(), "ocean", 2, nil},
		{"zero count", codemaster(), "ocean", 0, nil},
		{"mixed case trimmed", codemaster(), "  Ocean ", 1, nil},
		{"codebreaker", playing(), "ocean", 1, []string{CodeNotCodemaster}},
		{"other team's codemaster", func() *game.Aggregate { a := playing(); return as(a, a.Teams[1].Players[0]) }(),
			"ocean", 1, []string{CodeNotYourTurn}},
		{"already given", withClue(codemaster(), "river", 1), "ocean", 1, []string{CodeClueAlreadyGiven}},
		{"empty", codemaster(), "  ", 1, []string{CodeClueWordInvalid}},
		{"two words", codemaster(), "deep sea", 1, []string{CodeClueWordInvalid}},
		{"digits", codemaster(), "r2d2", 1, []string{CodeClueWordInvalid}},
		{"board word", codemaster(), "CARDAA", 1, []string{CodeClueWordOnBoard}},
		{"contains board word", codemaster(), "cardabx", 1, []string{CodeClueWordOnBoard}},
		{"negative", codemaster(), "ocean", -1, []string{CodeClueCountInvalid}},
		{"too large", codemaster(), "ocean", 25, []string{CodeClueCountTooLarge}},
		{"largest that fits", codemaster(), "ocean", 24, nil},
		{"max int", codemaster(), "ocean", math.MaxInt, []string{CodeClueCountTooLarge}},
		{"all violations together", withClue(codemaster(), "river", 1), "cardaa", -1,
			[]string{CodeClueAlreadyGiven, CodeClueWordOnBoard, CodeClueCountInvalid}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Check(c.a, GiveClue{Word: c.word, Count: c.count})
			expectCodes(t, err, c.codes...)
		})
	}
}

func TestGiveClueRejectsRepeatedWord(t *testing.T) {
	a := playing()
	a.CurrentRound.Turns = []game.Turn{
		{ID: 99, TeamID: 2, Status: game.TurnCompleted, Clue: &game.Clue{Word: "ocean", Count: 1}},
		{ID: 100, TeamID: 1, Status: game.TurnActive},
	}
	_, err := Check(as(a, a.Teams[0].Players[0]), GiveClue{Word: "Ocean", Count: 1})
	expectCodes(t, err, CodeClueWordRepeated)
}

func TestMakeGuess(t *testing.T) {
	selected := func() *game.Aggregate {
		a := withClue(playing(), "ocean", 1)
		a.CurrentRound.Cards[0].Selected = true
		return a
	}
	spent := func() *game.Aggregate {
		a := withClue(playing(), "ocean", 1)
		a.ActiveTurn().GuessesRemaining = 0
		return a
	}
	cases := []struct {
		name  string
		a     *game.Aggregate
		card  int64
		codes []string
	}{
		{"ok", withClue(playing(), "ocean", 1), 5, nil},
		{"no clue yet", playing(), 5, []string{CodeClueMissing}},
		{"codemaster", func() *game.Aggregate { a := withClue(playing(), "ocean", 1); return as(a, a.Teams[0].Players[0]) }(),
			5, []string{CodeNotCodebreaker}},
		{"other team", func() *game.Aggregate { a := withClue(playing(), "ocean", 1); return as(a, a.Teams[1].Players[1]) }(),
			5, []string{CodeNotYourTurn}},
		{"unknown card", withClue(playing(), "ocean", 1), 999, []string{CodeCardNotFound}},
		{"already revealed", selected(), 1, []string{CodeCardAlreadySelected}},
		{"no guesses left", spent(), 5, []string{CodeNoGuessesRemaining}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Check(c.a, MakeGuess{CardID: c.card})
			expectCodes(t, err, c.codes...)
		})
	}
}

func TestMakeGuessStagesStopEarly(t *testing.T) {
	a := playing()
	a.CurrentRound.Status = game.RoundCompleted
	a.CurrentRound.Turns[0].Status = game.TurnCompleted
	_, err := Check(a, MakeGuess{CardID: 999})
	// The turn and card stages never run once the round is over.
	expectCodes(t, err, CodeRoundNotInProgress)
}

func TestEndTurn(t *testing.T) {
	_, err := Check(withClue(playing(), "ocean", 1), EndTurn{})
	expectCodes(t, err)

	_, err = Check(playing(), EndTurn{})
	expectCodes(t, err, CodeClueMissing)

	a := withClue(playing(), "ocean", 1)
	_, err = Check(as(a, a.Teams[1].Players[1]), EndTurn{})
	expectCodes(t, err, CodeNotYourTurn)
}

func TestStartTurn(t *testing.T) {
	a := playing()
	_, err := Check(a, StartTurn{TeamID: 2})
	expectCodes(t, err, CodeActiveTurnExists)

	a.CurrentRound.Turns[0].Status = game.TurnCompleted
	_, err = Check(a, StartTurn{TeamID: 1})
	expectCodes(t, err, CodeTeamsMustAlternate)

	_, err = Check(a, StartTurn{TeamID: 2})
	expectCodes(t, err)

	_, err = Check(a, StartTurn{TeamID: 7})
	expectCodes(t, err, CodeTeamNotFound)
}

func TestEndRoundAndGame(t *testing.T) {
	a := playing()
	_, err := Check(a, EndRound{WinnerTeamID: 1})
	expectCodes(t, err, CodeActiveTurnExists)

	a.CurrentRound.Turns[0].Status = game.TurnCompleted
	_, err = Check(a, EndRound{WinnerTeamID: 1})
	expectCodes(t, err)

	_, err = Check(a, EndGame{WinnerTeamID: 1})
	expectCodes(t, err, CodeWinnerInvalid)

	a.History[0].Status = game.RoundCompleted
	a.History[0].WinnerTeamID = 1
	_, err = Check(a, EndGame{WinnerTeamID: 1})
	expectCodes(t, err)
	_, err = Check(a, EndGame{WinnerTeamID: 2})
	expectCodes(t, err, CodeWinnerInvalid)
}

func TestRoundSetup(t *testing.T) {
	setup := func() *game.Aggregate {
		a := playing()
		a.CurrentRound.Status = game.RoundSetup
		a.CurrentRound.Cards = nil
		a.CurrentRound.Turns = nil
		return a
	}

	_, err := Check(setup(), DealCards{})
	expectCodes(t, err)

	_, err = Check(playing(), DealCards{})
	expectCodes(t, err, CodeRoundNotSetup, CodeCardsAlreadyDealt)

	_, err = Check(setup(), StartRound{})
	expectCodes(t, err, CodeCardsNotDealt)

	a := setup()
	a.CurrentRound.Cards = playing().CurrentRound.Cards
	a.Teams[1].Players[0].Role = game.RoleNone
	_, err = Check(a, StartRound{})
	expectCodes(t, err, CodeRolesNotAssigned)

	_, err = Check(setup(), AssignRoles{})
	expectCodes(t, err)
}

func TestCreateRound(t *testing.T) {
	_, err := Check(playing(), CreateRound{})
	expectCodes(t, err, CodeRoundNotCompleted, CodeMaxRoundsReached)

	a := playing()
	a.Game.Format = game.FormatBestOfThree
	a.CurrentRound.Status = game.RoundCompleted
	a.History[0] = game.RoundSummary{ID: 10, Number: 1, Status: game.RoundCompleted, WinnerTeamID: 2}
	_, err = Check(a, CreateRound{})
	expectCodes(t, err)

	a.Game.Format = game.FormatQuick
	_, err = Check(a, CreateRound{})
	expectCodes(t, err, CodeMaxRoundsReached, CodeGameAlreadyDecided)
}

func TestStartGame(t *testing.T) {
	a := playing()
	a.Game.Status = game.GameLobby
	a.CurrentRound, a.History = nil, nil
	_, err := Check(a, StartGame{})
	expectCodes(t, err)

	a.Teams[1].Players = a.Teams[1].Players[:1]
	_, err = Check(a, StartGame{})
	expectCodes(t, err, CodeNotEnoughPlayers)

	a.Teams = a.Teams[:1]
	a.Game.Status = game.GameInProgress
	_, err = Check(a, StartGame{})
	expectCodes(t, err, CodeGameNotInLobby, CodeNotEnoughTeams)
}

func TestJoinGame(t *testing.T) {
	a := playing()
	a.Game.Status = game.GameLobby

	_, err := Check(a, JoinGame{UserID: "erin", TeamID: 2})
	expectCodes(t, err)
	_, err = Check(a, JoinGame{UserID: "erin"})
	expectCodes(t, err)
	_, err = Check(a, JoinGame{UserID: "alice", TeamID: 9})
	expectCodes(t, err, CodeAlreadySeated, CodeTeamNotFound)

	a.Game.Status = game.GameInProgress
	_, err = Check(a, JoinGame{UserID: "erin"})
	expectCodes(t, err, CodeGameNotInLobby)
	_, err = Check(a, LeaveGame{})
	expectCodes(t, err, CodeGameNotInLobby)
}
