// Package session models one user's walk through the riddle and time-lapse
// views as an explicit state machine.
package session

import (
	"errors"
	"fmt"
)

// State is the page a session is on.
type State string

const (
	// Landing is the riddle start page announcing a new cloud.
	Landing State = "landing"
	// Viewing shows the newest cloud photo and sensor readings.
	Viewing State = "viewing"
	// Revealing takes the user's guess and shows the model's answers.
	Revealing State = "revealing"
	// Album lists the newest photos of the time-lapse view.
	Album State = "album"
	// Details shows one album photo with its capture time.
	Details State = "details"
)

// Action is a user interaction that may move a session to another state.
type Action string

const (
	ActionCheckCloud  Action = "check_cloud"
	ActionConfirm     Action = "confirm"
	ActionSubmit      Action = "submit"
	ActionNextCloud   Action = "next_cloud"
	ActionOpenRiddle  Action = "open_riddle"
	ActionOpenAlbum   Action = "open_album"
	ActionViewDetails Action = "view_details"
	ActionBackToAlbum Action = "back_to_album"
)

// ErrInvalidTransition is returned for an action the current state does not accept.
var ErrInvalidTransition = errors.New("invalid transition")

// transitions is the complete transition table; a missing entry is an
// illegal action in that state.
var transitions = map[State]map[Action]State{
	Landing: {
		ActionCheckCloud: Viewing,
		ActionOpenRiddle: Landing,
		ActionOpenAlbum:  Album,
	},
	Viewing: {
		ActionConfirm:    Revealing,
		ActionCheckCloud: Viewing,
		ActionOpenRiddle: Viewing,
		ActionOpenAlbum:  Album,
	},
	Revealing: {
		ActionSubmit:     Revealing,
		ActionNextCloud:  Viewing,
		ActionOpenRiddle: Revealing,
		ActionOpenAlbum:  Album,
	},
	Album: {
		ActionViewDetails: Details,
		ActionOpenAlbum:   Album,
		ActionOpenRiddle:  Landing,
	},
	Details: {
		ActionBackToAlbum: Album,
		ActionViewDetails: Details,
		ActionOpenAlbum:   Album,
		ActionOpenRiddle:  Landing,
	},
}

// Next returns the state reached from s by action.
func Next(s State, action Action) (State, error) {
	next, ok := transitions[s][action]
	if !ok {
		return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, s)
	}
	return next, nil
}

// Allowed lists the actions accepted in state s.
func Allowed(s State) []Action {
	actions := make([]Action, 0, len(transitions[s]))
	for _, a := range actionOrder {
		if _, ok := transitions[s][a]; ok {
			actions = append(actions, a)
		}
	}
	return actions
}

var actionOrder = []Action{
	ActionCheckCloud, ActionConfirm, ActionSubmit, ActionNextCloud,
	ActionOpenRiddle, ActionOpenAlbum, ActionViewDetails, ActionBackToAlbum,
}
