package domain

import (
	"strconv"
	"time"
)

// FilterAll is the sentinel value meaning "match everything" on an axis.
// An empty string is treated the same way.
const FilterAll = "all"

// Filter status values for the publish-status axis.
const (
	FilterPublic  = "true"
	FilterPrivate = "false"
)

// FilterSpec is a multi-criteria trip filter. Each axis is optional and
// combined with the others by logical AND. Destination holds a prefecture
// code as a decimal string; Year/Month/Day match the corresponding parts
// of the trip's start date, each independently (a year-only spec matches
// every trip starting in that year). Status is tri-state: FilterPublic,
// FilterPrivate, or all.
type FilterSpec struct {
	Destination string
	Year        string
	Month       string
	Day         string
	Status      string
}

// IsZero reports whether every axis is absent, i.e. the identity filter.
func (s FilterSpec) IsZero() bool {
	return wildcard(s.Destination) && wildcard(s.Year) &&
		wildcard(s.Month) && wildcard(s.Day) && wildcard(s.Status)
}

// Matches reports whether t satisfies every present axis of the spec.
func (s FilterSpec) Matches(t Trip) bool {
	return s.matchesDestination(t) && s.matchesDate(t) && s.matchesStatus(t)
}

// Apply returns the ordered subset of trips matching the spec. The input
// order is preserved, and the input slice is returned unchanged when the
// spec is the identity filter.
func (s FilterSpec) Apply(trips []Trip) []Trip {
	if s.IsZero() {
		return trips
	}
	matched := make([]Trip, 0, len(trips))
	for _, t := range trips {
		if s.Matches(t) {
			matched = append(matched, t)
		}
	}
	return matched
}

func (s FilterSpec) matchesDestination(t Trip) bool {
	if wildcard(s.Destination) {
		return true
	}
	code, err := strconv.Atoi(s.Destination)
	return err == nil && code == t.PrefectureID
}

func (s FilterSpec) matchesDate(t Trip) bool {
	if wildcard(s.Year) && wildcard(s.Month) && wildcard(s.Day) {
		return true
	}
	start, err := time.Parse(DateLayout, t.StartDate)
	if err != nil {
		return false
	}
	return matchPart(s.Year, start.Year()) &&
		matchPart(s.Month, int(start.Month())) &&
		matchPart(s.Day, start.Day())
}

func (s FilterSpec) matchesStatus(t Trip) bool {
	switch s.Status {
	case FilterPublic:
		return t.IsPublic
	case FilterPrivate:
		return !t.IsPublic
	default:
		return true
	}
}

// matchPart compares one date sub-part numerically, so "7" matches July
// regardless of zero padding. An absent part is a wildcard.
func matchPart(sel string, part int) bool {
	if wildcard(sel) {
		return true
	}
	n, err := strconv.Atoi(sel)
	return err == nil && n == part
}

func wildcard(sel string) bool {
	return sel == "" || sel == FilterAll
}
