// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package view holds the per-session view state and the controller that
// moves it through validation, loading, and the three outcomes.
package view

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/rejected-theories/pkg/types"
)

// User-facing messages. They carry no machine-readable code.
const (
	MsgInvalidYear = "Please enter a valid year."
	MsgNoResults   = "No relevant theories found. Try a different query."
	MsgRetrieval   = "Failed to retrieve data from Wikipedia."
)

// ErrInvalidYear is returned by ParseYear for any rejected input.
var ErrInvalidYear = errors.New("invalid year")

// Phase is the controller's position in the submit cycle.
type Phase int

const (
	Idle Phase = iota
	Validating
	Loading
	Success
	Empty
	Error
)

var phaseNames = [...]string{"idle", "validating", "loading", "success", "empty", "error"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// MarshalText lets Phase appear by name in JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ViewState is everything the presentation layer renders.
type ViewState struct {
	// Year is the raw text last entered.
	Year string `json:"year"`

	Results      []types.DisplayRecord `json:"results"`
	Loading      bool                  `json:"loading"`
	ErrorMessage string                `json:"error,omitempty"`

	Phase Phase `json:"phase"`

	// Generation counts submits, valid or not. A fetch only lands if its
	// generation is still current when it resolves.
	Generation uint64 `json:"generation"`
}

// ShowPlaceholder reports whether the "no theories found" line should be
// drawn: nothing loading, no error, a year entered, and no results.
func (s ViewState) ShowPlaceholder() bool {
	return !s.Loading && s.ErrorMessage == "" && strings.TrimSpace(s.Year) != "" && len(s.Results) == 0
}

// clone returns a copy that shares no slice with s.
func (s ViewState) clone() ViewState {
	if s.Results != nil {
		results := make([]types.DisplayRecord, len(s.Results))
		copy(results, s.Results)
		s.Results = results
	}
	return s
}

// ParseYear accepts a non-negative integer no greater than now's calendar
// year. Blank, non-numeric, fractional, negative, and future input all
// return ErrInvalidYear.
func ParseYear(raw string, now time.Time) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrInvalidYear
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidYear
	}
	if year < 0 || year > now.Year() {
		return 0, ErrInvalidYear
	}
	return year, nil
}
