package domain

import "fmt"

// TransitionMode selects how strictly donation status changes are checked
type TransitionMode string

const (
	// TransitionsPermissive accepts any status from any status, including
	// re-accepting a request that is already in progress.
	TransitionsPermissive TransitionMode = "permissive"
	// TransitionsStrict only allows the edges listed in strictTransitions.
	TransitionsStrict TransitionMode = "strict"
)

// strictTransitions maps a target status to the statuses it may be entered from.
var strictTransitions = map[DonationStatus][]DonationStatus{
	DonationInProgress: {DonationPending},
	DonationDone:       {DonationInProgress},
	DonationCanceled:   {DonationPending, DonationInProgress},
	DonationPending:    {DonationInProgress},
}

// TransitionPolicy decides which donation status changes are legal
type TransitionPolicy struct {
	mode TransitionMode
}

// NewTransitionPolicy builds a policy for the given mode
func NewTransitionPolicy(mode TransitionMode) (TransitionPolicy, error) {
	switch mode {
	case TransitionsPermissive, TransitionsStrict:
		return TransitionPolicy{mode: mode}, nil
	case "":
		return TransitionPolicy{mode: TransitionsPermissive}, nil
	}
	return TransitionPolicy{}, fmt.Errorf("unknown transition mode %q", mode)
}

// Mode returns the configured mode
func (p TransitionPolicy) Mode() TransitionMode {
	if p.mode == "" {
		return TransitionsPermissive
	}
	return p.mode
}

// Allowed reports whether moving from one status to another is legal
func (p TransitionPolicy) Allowed(from, to DonationStatus) bool {
	if !to.Valid() {
		return false
	}
	sources := p.AllowedFrom(to)
	if sources == nil {
		return true
	}
	for _, s := range sources {
		if s == from {
			return true
		}
	}
	return false
}

// AllowedFrom returns the statuses a request may be in to move to `to`.
// A nil slice means any status is accepted.
func (p TransitionPolicy) AllowedFrom(to DonationStatus) []DonationStatus {
	if p.Mode() == TransitionsPermissive {
		return nil
	}
	sources, ok := strictTransitions[to]
	if !ok {
		return []DonationStatus{}
	}
	return sources
}
