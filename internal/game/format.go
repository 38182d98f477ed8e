package game

// MaxRounds is the round cap for a format.
func (f Format) MaxRounds() int {
	switch f {
	case FormatQuick:
		return 1
	case FormatBestOfThree:
		return 3
	case FormatRoundRobin:
		return 5
	}
	return 0
}

// WinsNeeded is the completed-round win tally that ends a game.
func (f Format) WinsNeeded() int {
	switch f {
	case FormatQuick:
		return 1
	case FormatBestOfThree:
		return 2
	case FormatRoundRobin:
		return 3
	}
	return 0
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool { return f.MaxRounds() > 0 }

// CheckGameWinner returns the team whose completed-round wins reached the
// format's threshold. Only one team can get there first; ties are impossible
// because a round has exactly one winner.
func CheckGameWinner(a *Aggregate) (int64, bool) {
	need := a.Game.Format.WinsNeeded()
	if need == 0 {
		return 0, false
	}
	for _, t := range a.Teams {
		if a.Score(t.ID) >= need {
			return t.ID, true
		}
	}
	return 0, false
}

// CanCreateNextRound is the dual of CheckGameWinner: true while the round cap
// has room and nobody has won yet.
func CanCreateNextRound(a *Aggregate) bool {
	if a.CompletedRounds() >= a.Game.Format.MaxRounds() {
		return false
	}
	_, won := CheckGameWinner(a)
	return !won
}
