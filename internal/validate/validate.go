// Package validate holds the precondition rules for every gameplay action.
//
// Check runs an action's rules against an aggregate and, when all of them
// hold, returns a Valid proof. Valid can only be built here, so mutation code
// that demands one cannot run on state nobody checked. Rules never mutate the
// aggregate.
//
// Rules are grouped into stages. Every rule in a stage runs and reports its own
// error; a later stage only runs once the earlier ones passed, which keeps
// shape checks (round present, turn present) in front of rules that rely on
// them.
package validate

import (
	"strings"

	"github.com/robalobadob/codenames/internal/game"
)

// Error is one violated rule.
type Error struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e Error) Error() string { return e.Path + ": " + e.Message }

// Errors is the full list of violated rules for one check.
type Errors []Error

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether a rule with code failed.
func (es Errors) Has(code string) bool {
	for _, e := range es {
		if e.Code == code {
			return true
		}
	}
	return false
}

// rule returns nil when it holds.
type rule func(a *game.Aggregate) *Error

type stage []rule

// Action is implemented by the action types in this package only.
type Action interface {
	Name() string
	stages() []stage
}

// Valid proves that its aggregate satisfied action A's rules.
type Valid[A Action] struct {
	state  *game.Aggregate
	action A
}

// State is the checked aggregate. Nil for a zero Valid.
func (v Valid[A]) State() *game.Aggregate { return v.state }

// Action is the checked action input.
func (v Valid[A]) Action() A { return v.action }

// Ok reports whether v came out of Check.
func (v Valid[A]) Ok() bool { return v.state != nil }

// Check validates a against action. On failure the error is Errors.
func Check[A Action](a *game.Aggregate, action A) (Valid[A], error) {
	if a == nil {
		return Valid[A]{}, Errors{{Path: "game", Message: "game state is missing", Code: CodeStateMissing}}
	}
	for _, st := range action.stages() {
		var errs Errors
		for _, r := range st {
			if e := r(a); e != nil {
				errs = append(errs, *e)
			}
		}
		if len(errs) > 0 {
			return Valid[A]{}, errs
		}
	}
	return Valid[A]{state: a, action: action}, nil
}

func fail(path, code, msg string) *Error {
	return &Error{Path: path, Message: msg, Code: code}
}
