package game

import "sort"

// AssignRoles derives every player's role for a round. Each team's codemaster
// rotates by round number over its players in join order; the rest of the team
// are codebreakers and teamless players spectate.
func AssignRoles(teams []Team, spectators []Player, roundNumber int) map[int64]Role {
	roles := make(map[int64]Role)
	for _, t := range teams {
		players := append([]Player(nil), t.Players...)
		if len(players) == 0 {
			continue
		}
		sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
		cm := (roundNumber - 1) % len(players)
		if cm < 0 {
			cm = 0
		}
		for i, p := range players {
			if i == cm {
				roles[p.ID] = RoleCodemaster
			} else {
				roles[p.ID] = RoleCodebreaker
			}
		}
	}
	for _, p := range spectators {
		roles[p.ID] = RoleSpectator
	}
	return roles
}
