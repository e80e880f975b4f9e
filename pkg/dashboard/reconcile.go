// Package dashboard keeps the case list shown on a user's dashboard in step
// with out-of-band case events. Events may arrive late, twice or out of order;
// ApplyRemoteEvent folds them into a state without any transport concerns.
package dashboard

import (
	"sort"
	"strings"
	"time"
)

type EventKind string

const (
	KindCaseCreated EventKind = "case_created"
	KindCaseUpdated EventKind = "case_updated"
)

// ParseEventKind accepts both the wire form ("case_updated") and the bus
// event type ("CASE_UPDATED", optionally prefixed with "events.").
func ParseEventKind(s string) (EventKind, bool) {
	s = strings.ToLower(strings.TrimPrefix(s, "events."))
	switch k := EventKind(s); k {
	case KindCaseCreated, KindCaseUpdated:
		return k, true
	}
	return "", false
}

// Case is one row of the dashboard.
type Case struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	DocumentType string    `json:"document_type"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Event struct {
	Kind EventKind `json:"kind"`
	Case Case      `json:"case"`
}

// State is the ordered case list: newest UpdatedAt first, ties by id.
type State struct {
	Cases []Case `json:"cases"`
}

func (s State) Find(id string) (Case, bool) {
	for _, c := range s.Cases {
		if c.ID == id {
			return c, true
		}
	}
	return Case{}, false
}

// ApplyRemoteEvent returns the state after ev. The input is never modified.
//
// Each case keeps the newest UpdatedAt it has seen; an event that is not
// newer than that is dropped, which makes redelivery and reordering harmless.
// An update for an unknown case creates it, and a repeated create acts as an
// update. Events of unknown kinds or without a case id are ignored.
func ApplyRemoteEvent(current State, ev Event) State {
	next := State{Cases: make([]Case, len(current.Cases), len(current.Cases)+1)}
	copy(next.Cases, current.Cases)

	if ev.Case.ID == "" {
		return next
	}
	switch ev.Kind {
	case KindCaseCreated, KindCaseUpdated:
	default:
		return next
	}

	idx := -1
	for i, c := range next.Cases {
		if c.ID == ev.Case.ID {
			idx = i
			break
		}
	}

	switch {
	case idx < 0:
		next.Cases = append(next.Cases, ev.Case)
	case ev.Case.UpdatedAt.After(next.Cases[idx].UpdatedAt):
		next.Cases[idx] = ev.Case
	default:
		return next
	}

	sortCases(next.Cases)
	return next
}

// Rebuild folds a batch of events into an empty state.
func Rebuild(events []Event) State {
	var s State
	for _, ev := range events {
		s = ApplyRemoteEvent(s, ev)
	}
	return s
}

func sortCases(cases []Case) {
	sort.SliceStable(cases, func(i, j int) bool {
		if !cases[i].UpdatedAt.Equal(cases[j].UpdatedAt) {
			return cases[i].UpdatedAt.After(cases[j].UpdatedAt)
		}
		return cases[i].ID < cases[j].ID
	})
}
