// internal/game/visibility.go
//
// Role-scoped projection of game state.
// Codemasters see every card's identity. Everyone else sees only the word and
// the selected flag until a card is revealed; revealed cards are public.
// Every read path that returns cards must go through Project/ProjectCard.

package game

// CardView is a card as a given role may see it.
type CardView struct {
	ID       int64     `json:"id"`
	Position int       `json:"position"`
	Word     string    `json:"word"`
	Selected bool      `json:"selected"`
	Type     *CardType `json:"cardType,omitempty"`
	TeamID   *int64    `json:"teamId,omitempty"`
}

// ProjectCard masks a card for role.
func ProjectCard(c Card, role Role) CardView {
	v := CardView{ID: c.ID, Position: c.Position, Word: c.Word, Selected: c.Selected}
	if role != RoleCodemaster && !c.Selected {
		return v
	}
	t := c.Type
	v.Type = &t
	if c.Type == CardTeam {
		id := c.TeamID
		v.TeamID = &id
	}
	return v
}

// View is the full game state scoped to the requester's role.
type View struct {
	Game       GameView     `json:"game"`
	Teams      []TeamView   `json:"teams"`
	Spectators []PlayerView `json:"spectators"`
	Round      *RoundView   `json:"round,omitempty"`
	Rounds     []RoundBrief `json:"rounds"`
	Me         PlayerView   `json:"me"`
}

type GameView struct {
	PublicID     string     `json:"id"`
	Name         string     `json:"name"`
	Status       GameStatus `json:"status"`
	Format       Format     `json:"format"`
	MaxRounds    int        `json:"maxRounds"`
	WinsNeeded   int        `json:"winsNeeded"`
	WinnerTeamID *int64     `json:"winnerTeamId,omitempty"`
	// CanCreateNextRound is false once the round cap is hit or a team has won.
	CanCreateNextRound bool `json:"canCreateNextRound"`
}

type TeamView struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Score          int          `json:"score"`
	CardsRemaining int          `json:"cardsRemaining"`
	Players        []PlayerView `json:"players"`
}

type PlayerView struct {
	PublicID    string       `json:"id"`
	DisplayName string       `json:"displayName"`
	TeamID      int64        `json:"teamId,omitempty"`
	Role        Role         `json:"role"`
	Status      PlayerStatus `json:"status"`
}

type RoundView struct {
	ID           int64       `json:"id"`
	Number       int         `json:"number"`
	Status       RoundStatus `json:"status"`
	WinnerTeamID int64       `json:"winnerTeamId,omitempty"`
	Cards        []CardView  `json:"cards"`
	Turns        []TurnView  `json:"turns"`
}

type RoundBrief struct {
	Number       int         `json:"number"`
	Status       RoundStatus `json:"status"`
	WinnerTeamID int64       `json:"winnerTeamId,omitempty"`
}

type TurnView struct {
	ID               int64       `json:"id"`
	TeamID           int64       `json:"teamId"`
	Status           TurnStatus  `json:"status"`
	GuessesRemaining int         `json:"guessesRemaining"`
	Clue             *ClueView   `json:"clue,omitempty"`
	Guesses          []GuessView `json:"guesses"`
}

type ClueView struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type GuessView struct {
	PlayerID int64   `json:"playerId"`
	CardID   int64   `json:"cardId"`
	Outcome  Outcome `json:"outcome"`
}

// Project builds the requester's view of a.
func Project(a *Aggregate) View {
	role := a.Requester.Role
	v := View{
		Game: GameView{
			PublicID:   a.Game.PublicID,
			Name:       a.Game.Name,
			Status:     a.Game.Status,
			Format:     a.Game.Format,
			MaxRounds:  a.Game.Format.MaxRounds(),
			WinsNeeded: a.Game.Format.WinsNeeded(),

			CanCreateNextRound: CanCreateNextRound(a),
		},
		Teams:      make([]TeamView, 0, len(a.Teams)),
		Spectators: make([]PlayerView, 0, len(a.Spectators)),
		Rounds:     make([]RoundBrief, 0, len(a.History)),
		Me:         playerView(a.Requester.Player, a.Requester.Role),
	}
	if w, ok := CheckGameWinner(a); ok {
		v.Game.WinnerTeamID = &w
	}
	for _, t := range a.Teams {
		total, selected := a.TeamCards(t.ID)
		tv := TeamView{
			ID:             t.ID,
			Name:           t.Name,
			Score:          a.Score(t.ID),
			CardsRemaining: total - selected,
			Players:        make([]PlayerView, 0, len(t.Players)),
		}
		for _, p := range t.Players {
			tv.Players = append(tv.Players, playerView(p, p.Role))
		}
		v.Teams = append(v.Teams, tv)
	}
	for _, p := range a.Spectators {
		v.Spectators = append(v.Spectators, playerView(p, p.Role))
	}
	for _, r := range a.History {
		v.Rounds = append(v.Rounds, RoundBrief{Number: r.Number, Status: r.Status, WinnerTeamID: r.WinnerTeamID})
	}
	if r := a.CurrentRound; r != nil {
		rv := &RoundView{
			ID:           r.ID,
			Number:       r.Number,
			Status:       r.Status,
			WinnerTeamID: r.WinnerTeamID,
			Cards:        make([]CardView, 0, len(r.Cards)),
			Turns:        make([]TurnView, 0, len(r.Turns)),
		}
		for _, c := range r.Cards {
			rv.Cards = append(rv.Cards, ProjectCard(c, role))
		}
		for _, t := range r.Turns {
			rv.Turns = append(rv.Turns, turnView(t))
		}
		v.Round = rv
	}
	return v
}

func playerView(p Player, role Role) PlayerView {
	if role == "" {
		role = RoleNone
	}
	return PlayerView{
		PublicID:    p.PublicID,
		DisplayName: p.DisplayName,
		TeamID:      p.TeamID,
		Role:        role,
		Status:      p.Status,
	}
}

func turnView(t Turn) TurnView {
	tv := TurnView{
		ID:               t.ID,
		TeamID:           t.TeamID,
		Status:           t.Status,
		GuessesRemaining: t.GuessesRemaining,
		Guesses:          make([]GuessView, 0, len(t.Guesses)),
	}
	if t.Clue != nil {
		tv.Clue = &ClueView{Word: t.Clue.Word, Count: t.Clue.Count}
	}
	for _, g := range t.Guesses {
		tv.Guesses = append(tv.Guesses, GuessView{PlayerID: g.PlayerID, CardID: g.CardID, Outcome: g.Outcome})
	}
	return tv
}
