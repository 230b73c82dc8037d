// Package filter implements the event filter engine: a pure, deterministic
// pipeline deriving the visible event subset from a query. Both the student
// and admin event directories run through the same engine, as do the
// technical/non-technical views.
package filter

import (
	"fmt"
	"strings"

	"github.com/campusconnect/portal-api/internal/models"
)

// Tab selects one of the fixed directory tabs.
type Tab string

const (
	TabAll          Tab = "All"
	TabInternal     Tab = "Internal"
	TabExternal     Tab = "External"
	TabRegistered   Tab = "Registered"
	TabTechnical    Tab = "Technical"
	TabNonTechnical Tab = "NonTechnical"
)

// ParseTab maps a raw query value onto a Tab. Empty means All.
func ParseTab(raw string) (Tab, error) {
	if raw == "" {
		return TabAll, nil
	}
	switch Tab(raw) {
	case TabAll, TabInternal, TabExternal, TabRegistered, TabTechnical, TabNonTechnical:
		return Tab(raw), nil
	}
	return "", fmt.Errorf("unknown tab %q", raw)
}

// Query is one filter invocation. Stages compose text -> tab -> registered;
// the stages commute, the order is fixed here so callers never have to reason
// about it.
type Query struct {
	Text           string
	Tab            Tab
	RegisteredOnly bool
}

// The canonical category partition. Defined once; every screen and the HOD
// summary reuse it.
var technicalCategories = map[models.EventCategory]struct{}{
	models.CategoryWorkshop:  {},
	models.CategoryHackathon: {},
	models.CategorySeminar:   {},
}

var nonTechnicalCategories = map[models.EventCategory]struct{}{
	models.CategoryCultural:   {},
	models.CategorySports:     {},
	models.CategoryNetworking: {},
}

// Technical reports whether the category belongs to the technical bucket.
func Technical(c models.EventCategory) bool {
	_, ok := technicalCategories[c]
	return ok
}

// NonTechnical reports whether the category belongs to the non-technical bucket.
func NonTechnical(c models.EventCategory) bool {
	_, ok := nonTechnicalCategories[c]
	return ok
}

// Apply returns the subset of events matching the query. The input is never
// mutated and the result preserves input order. An empty query is the
// identity.
func Apply(events []models.EventView, q Query) []models.EventView {
	out := byText(events, q.Text)
	out = byTab(out, q.Tab)
	if q.RegisteredOnly {
		out = byRegistered(out)
	}
	return out
}

func byText(events []models.EventView, text string) []models.EventView {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return copyOf(events)
	}
	out := make([]models.EventView, 0, len(events))
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), needle) ||
			strings.Contains(strings.ToLower(string(e.Category)), needle) {
			out = append(out, e)
		}
	}
	return out
}

func byTab(events []models.EventView, tab Tab) []models.EventView {
	switch tab {
	case "", TabAll:
		return events
	case TabInternal:
		return keep(events, func(e models.EventView) bool { return e.Scope == models.ScopeInternal })
	case TabExternal:
		return keep(events, func(e models.EventView) bool { return e.Scope == models.ScopeExternal })
	case TabRegistered:
		return byRegistered(events)
	case TabTechnical:
		return keep(events, func(e models.EventView) bool { return Technical(e.Category) })
	case TabNonTechnical:
		return keep(events, func(e models.EventView) bool { return NonTechnical(e.Category) })
	}
	return events
}

func byRegistered(events []models.EventView) []models.EventView {
	return keep(events, func(e models.EventView) bool { return e.IsRegistered })
}

func keep(events []models.EventView, pred func(models.EventView) bool) []models.EventView {
	out := make([]models.EventView, 0, len(events))
	for _, e := range events {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

func copyOf(events []models.EventView) []models.EventView {
	out := make([]models.EventView, len(events))
	copy(out, events)
	return out
}
