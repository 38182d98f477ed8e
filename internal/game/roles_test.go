package game

import "testing"

func TestAssignRolesRotates(t *testing.T) {
	teams := []Team{
		{ID: 1, Players: []Player{{ID: 3}, {ID: 1}, {ID: 5}}},
		{ID: 2, Players: []Player{{ID: 2}, {ID: 4}}},
	}
	spectators := []Player{{ID: 9}}

	cases := []struct {
		round int
		red   int64
		blue  int64
	}{
		{1, 1, 2},
		{2, 3, 4},
		{3, 5, 2},
		{4, 1, 4},
	}
	for _, c := range cases {
		roles := AssignRoles(teams, spectators, c.round)
		if len(roles) != 6 {
			t.Fatalf("round %d: %d roles", c.round, len(roles))
		}
		for id, role := range roles {
			want := RoleCodebreaker
			switch id {
			case c.red, c.blue:
				want = RoleCodemaster
			case 9:
				want = RoleSpectator
			}
			if role != want {
				t.Fatalf("round %d: player %d is %s, want %s", c.round, id, role, want)
			}
		}
	}
}

func TestAssignRolesSkipsEmptyTeam(t *testing.T) {
	roles := AssignRoles([]Team{{ID: 1}, {ID: 2, Players: []Player{{ID: 4}}}}, nil, 1)
	if len(roles) != 1 || roles[4] != RoleCodemaster {
		t.Fatalf("unexpected roles: %v", roles)
	}
}
