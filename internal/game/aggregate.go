package game

// Aggregate is the assembled state of one game as seen by one requester.
// It is the only input the validator and the resolver accept.
type Aggregate struct {
	Game Game
	// Teams are ordered by position; each carries its players.
	Teams []Team
	// Spectators are players without a team.
	Spectators []Player
	// CurrentRound is the highest-numbered round, completed or not. Nil before
	// the first round is created.
	CurrentRound *Round
	// History lists every round of the game ordered by number, including the
	// current one.
	History []RoundSummary
	// Requester is the player context of the user the aggregate was loaded for.
	Requester PlayerContext
}

// RoundSummary is the slice of a round needed for tallies.
type RoundSummary struct {
	ID           int64
	Number       int
	Status       RoundStatus
	WinnerTeamID int64
}

// PlayerContext is the requesting user's seat and derived role.
type PlayerContext struct {
	UserID string
	Player Player
	Role   Role
}

// TeamID returns the requester's team, zero for spectators.
func (p PlayerContext) TeamID() int64 { return p.Player.TeamID }

// Team looks up a team by id.
func (a *Aggregate) Team(id int64) (*Team, bool) {
	for i := range a.Teams {
		if a.Teams[i].ID == id {
			return &a.Teams[i], true
		}
	}
	return nil, false
}

// OtherTeam returns the team that is not id. Games have exactly two teams.
func (a *Aggregate) OtherTeam(id int64) (*Team, bool) {
	for i := range a.Teams {
		if a.Teams[i].ID != id {
			return &a.Teams[i], true
		}
	}
	return nil, false
}

// Players returns every player in the game, team members first.
func (a *Aggregate) Players() []Player {
	var out []Player
	for _, t := range a.Teams {
		out = append(out, t.Players...)
	}
	return append(out, a.Spectators...)
}

// ActiveTurn returns the current round's ACTIVE turn, or nil.
func (a *Aggregate) ActiveTurn() *Turn {
	if a.CurrentRound == nil {
		return nil
	}
	for i := range a.CurrentRound.Turns {
		if a.CurrentRound.Turns[i].Status == TurnActive {
			return &a.CurrentRound.Turns[i]
		}
	}
	return nil
}

// Card looks up a card on the current board.
func (a *Aggregate) Card(id int64) (*Card, bool) {
	if a.CurrentRound == nil {
		return nil, false
	}
	for i := range a.CurrentRound.Cards {
		if a.CurrentRound.Cards[i].ID == id {
			return &a.CurrentRound.Cards[i], true
		}
	}
	return nil, false
}

// RoundCount is the number of rounds created so far.
func (a *Aggregate) RoundCount() int { return len(a.History) }

// CompletedRounds counts rounds with status COMPLETED.
func (a *Aggregate) CompletedRounds() int {
	n := 0
	for _, r := range a.History {
		if r.Status == RoundCompleted {
			n++
		}
	}
	return n
}

// Wins tallies completed-round wins per team id.
func (a *Aggregate) Wins() map[int64]int {
	wins := make(map[int64]int, len(a.Teams))
	for _, r := range a.History {
		if r.Status == RoundCompleted && r.WinnerTeamID != 0 {
			wins[r.WinnerTeamID]++
		}
	}
	return wins
}

// Score is the derived score for a team.
func (a *Aggregate) Score(teamID int64) int { return a.Wins()[teamID] }

// TeamCards returns (total, selected) TEAM cards owned by teamID on the board.
func (a *Aggregate) TeamCards(teamID int64) (total, selected int) {
	if a.CurrentRound == nil {
		return 0, 0
	}
	for _, c := range a.CurrentRound.Cards {
		if c.Type == CardTeam && c.TeamID == teamID {
			total++
			if c.Selected {
				selected++
			}
		}
	}
	return total, selected
}

// AllTeamCardsSelected reports whether teamID has revealed every card it owns.
func (a *Aggregate) AllTeamCardsSelected(teamID int64) bool {
	total, selected := a.TeamCards(teamID)
	return total > 0 && total == selected
}

// UnselectedCards counts cards on the board still face down.
func (a *Aggregate) UnselectedCards() int {
	if a.CurrentRound == nil {
		return 0
	}
	n := 0
	for _, c := range a.CurrentRound.Cards {
		if !c.Selected {
			n++
		}
	}
	return n
}

// StartingTeamID is the team dealt the larger share of cards.
func (a *Aggregate) StartingTeamID() (int64, bool) {
	if a.CurrentRound == nil {
		return 0, false
	}
	var best int64
	bestCount := 0
	for _, t := range a.Teams {
		total, _ := a.TeamCards(t.ID)
		if total > bestCount {
			best, bestCount = t.ID, total
		}
	}
	return best, bestCount == StartingTeamCards
}

// ClueWords returns every clue word given so far in the current round.
func (a *Aggregate) ClueWords() []string {
	if a.CurrentRound == nil {
		return nil
	}
	var out []string
	for _, t := range a.CurrentRound.Turns {
		if t.Clue != nil {
			out = append(out, t.Clue.Word)
		}
	}
	return out
}
