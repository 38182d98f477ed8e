// internal/game/dealer.go
//
// Card dealer for a round.
// Responsibilities:
//   - Pick the starting team uniformly between the two teams.
//   - Build the fixed 25-slot multiset (9 starting, 8 other, 7 bystander, 1 assassin).
//   - Shuffle slot order with an unbiased Fisher–Yates pass.
//   - Pair each shuffled slot with a word by position.
//
// Only slot order and the starting team are random; the composition never changes.

package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	BoardSize         = 25
	StartingTeamCards = 9
	OtherTeamCards    = 8
	BystanderCards    = 7
	AssassinCards     = 1
)

// Rand is the randomness the dealer needs. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from math/rand/v2's auto-seeded global source, which is
// safe for concurrent use.
var DefaultRand Rand = globalRand{}

// Slot is one type/owner position on the board before words are attached.
type Slot struct {
	Type   CardType
	TeamID int64
}

// Layout is a dealt board.
type Layout struct {
	StartingTeamID int64
	Cards          []Card
}

var (
	ErrSameTeam      = errors.New("dealer: teams must be distinct")
	ErrWordCount     = errors.New("dealer: wrong number of words")
	ErrDuplicateWord = errors.New("dealer: duplicate word")
)

// Slots builds the unshuffled slot multiset for a board.
func Slots(startingTeamID, otherTeamID int64) []Slot {
	out := make([]Slot, 0, BoardSize)
	for i := 0; i < StartingTeamCards; i++ {
		out = append(out, Slot{Type: CardTeam, TeamID: startingTeamID})
	}
	for i := 0; i < OtherTeamCards; i++ {
		out = append(out, Slot{Type: CardTeam, TeamID: otherTeamID})
	}
	for i := 0; i < BystanderCards; i++ {
		out = append(out, Slot{Type: CardBystander})
	}
	for i := 0; i < AssassinCards; i++ {
		out = append(out, Slot{Type: CardAssassin})
	}
	return out
}

// Shuffle permutes s in place: walk from the last index down, swapping each
// element with a uniformly chosen index at or below it.
func Shuffle[T any](s []T, r Rand) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Deal produces a board for two teams from exactly BoardSize distinct words.
// Card ids and round ids are left for storage to fill.
func Deal(team1ID, team2ID int64, words []string, r Rand) (Layout, error) {
	if team1ID == team2ID {
		return Layout{}, ErrSameTeam
	}
	if len(words) != BoardSize {
		return Layout{}, fmt.Errorf("%w: got %d, want %d", ErrWordCount, len(words), BoardSize)
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		k := strings.ToLower(strings.TrimSpace(w))
		if _, dup := seen[k]; dup {
			return Layout{}, fmt.Errorf("%w: %q", ErrDuplicateWord, w)
		}
		seen[k] = struct{}{}
	}

	starting, other := team1ID, team2ID
	if r.IntN(2) == 1 {
		starting, other = team2ID, team1ID
	}

	slots := Slots(starting, other)
	Shuffle(slots, r)

	cards := make([]Card, BoardSize)
	for i, s := range slots {
		cards[i] = Card{
			Position: i,
			Word:     strings.ToLower(strings.TrimSpace(words[i])),
			Type:     s.Type,
			TeamID:   s.TeamID,
		}
	}
	return Layout{StartingTeamID: starting, Cards: cards}, nil
}
