package service

import "time"

// RunFilter narrows run-ledger queries by start time and owning system.
type RunFilter struct {
	From     time.Time // inclusive; zero means no lower bound
	To       time.Time // inclusive; zero means no upper bound
	SystemID string    // "" matches all systems
}
