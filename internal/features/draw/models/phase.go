package models

import (
	"errors"
	"strings"
)

// Phase is the derived lifecycle status of a draw. It is never persisted.
type Phase string

const (
	PhaseAccepting    Phase = "accepting"
	PhaseReadyForDraw Phase = "ready"
	PhaseResolved     Phase = "past"
)

var ErrUnknownPhase = errors.New("unknown phase, expected one of accepting, ready, past")

// ParsePhase maps the REST filter value to a Phase. Empty input means no filter.
func ParsePhase(raw string) (Phase, bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", false, nil
	case string(PhaseAccepting):
		return PhaseAccepting, true, nil
	case string(PhaseReadyForDraw), "ready_for_draw":
		return PhaseReadyForDraw, true, nil
	case string(PhaseResolved), "resolved":
		return PhaseResolved, true, nil
	default:
		return "", false, ErrUnknownPhase
	}
}
