// Package config – health tracking for crash detection.
//
// Tracks the last N shutdown states to detect repeated crashes. Each
// run is recorded as dirty when it starts (MarkStarting) and becomes
// clean only through an orderly shutdown (MarkCleanShutdown), so a run
// that crashed or was killed stays dirty. main.go passes
// Config.ReconnectRetryLimit as the streak length: that many
// consecutive dirty runs turn auto-logging on, and auto-enabled
// logging disables itself after that many consecutive clean shutdowns.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// HealthState tracks shutdown history and auto-logging state.
type HealthState struct {
	// Shutdowns records the last few shutdown states (true=clean, false=dirty).
	Shutdowns []bool `json:"shutdowns"`
	// LoggingAuto is true when logging was auto-enabled due to crashes.
	LoggingAuto bool `json:"logging_auto"`
	// CleanSinceAuto counts clean shutdowns since auto-logging was enabled.
	CleanSinceAuto int `json:"clean_since_auto"`
}

const maxShutdownHistory = 5

// healthPath returns the path to ~/.glacierterm-health.json.
func healthPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".glacierterm-health.json")
}

// LoadHealth reads the health state from disk.
// Returns a zero-value HealthState if no file exists.
func LoadHealth() HealthState {
	p := healthPath()
	if p == "" {
		return HealthState{}
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return HealthState{}
	}
	var h HealthState
	if err := json.Unmarshal(data, &h); err != nil {
		return HealthState{}
	}
	return h
}

// SaveHealth writes the health state to disk.
func SaveHealth(h HealthState) error {
	p := healthPath()
	if p == "" {
		return nil
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}

// MarkStarting adds a dirty (false) entry to the shutdown history.
// Call this at startup before any real work begins.
func MarkStarting(h *HealthState) {
	h.Shutdowns = append(h.Shutdowns, false)
	if len(h.Shutdowns) > maxShutdownHistory {
		h.Shutdowns = h.Shutdowns[len(h.Shutdowns)-maxShutdownHistory:]
	}
}

// MarkCleanShutdown marks the most recent entry as clean (true).
// Call this during orderly shutdown.
func MarkCleanShutdown(h *HealthState) {
	if len(h.Shutdowns) > 0 {
		h.Shutdowns[len(h.Shutdowns)-1] = true
	}
	if h.LoggingAuto {
		h.CleanSinceAuto++
	}
}

// HasRepeatedCrashes returns true if the last streak consecutive
// completed sessions (not counting the one MarkStarting just opened)
// were all dirty. streak is normally Config.ReconnectRetryLimit, which
// is what main.go passes.
func HasRepeatedCrashes(h *HealthState, streak int) bool {
	if streak < 1 {
		return false
	}
	n := len(h.Shutdowns)
	// The current session was just added as dirty by MarkStarting, so
	// the completed sessions to check are the streak entries before it.
	completed := n - 1
	if completed < streak {
		return false
	}
	for i := completed - streak; i < completed; i++ {
		if h.Shutdowns[i] {
			return false
		}
	}
	return true
}

// ShouldAutoDisableLogging returns true if auto-logging should be
// turned off after streak consecutive clean shutdowns since it was
// enabled, using the same streak length HasRepeatedCrashes triggered on.
func ShouldAutoDisableLogging(h *HealthState, streak int) bool {
	return h.LoggingAuto && streak >= 1 && h.CleanSinceAuto >= streak
}

// EnableAutoLogging marks logging as auto-enabled and resets the clean counter.
func EnableAutoLogging(h *HealthState) {
	h.LoggingAuto = true
	h.CleanSinceAuto = 0
}

// DisableAutoLogging clears the auto-logging state.
func DisableAutoLogging(h *HealthState) {
	h.LoggingAuto = false
	h.CleanSinceAuto = 0
}
