package validate

import (
	"fmt"

	"github.com/robalobadob/codenames/internal/game"
)

// JoinGame seats UserID in a lobby. TeamID zero means spectate. The aggregate
// it is checked against carries no requester.
type JoinGame struct {
	UserID string
	TeamID int64
}

func (JoinGame) Name() string { return "join-game" }

func (j JoinGame) stages() []stage {
	st := stage{gameStatus(game.GameLobby, CodeGameNotInLobby), notSeated(j.UserID)}
	if j.TeamID != 0 {
		st = append(st, teamExists("player.teamId", j.TeamID))
	}
	return []stage{st}
}

func notSeated(userID string) rule {
	return func(a *game.Aggregate) *Error {
		for _, p := range a.Players() {
			if p.UserID == userID {
				return fail("player.userId", CodeAlreadySeated, fmt.Sprintf("user already plays as %q", p.DisplayName))
			}
		}
		return nil
	}
}

// LeaveGame removes the requester from a lobby.
type LeaveGame struct{}

func (LeaveGame) Name() string { return "leave-game" }

func (LeaveGame) stages() []stage {
	return []stage{{gameStatus(game.GameLobby, CodeGameNotInLobby)}}
}
