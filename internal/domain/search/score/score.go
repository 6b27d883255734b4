// Package score computes additive relevance for a single entity against a query.
package score

import (
	"strings"
	"time"
)

// Weights applied per matching signal.
const (
	WeightTitleContains   = 100
	WeightTitleStartsWith = 50
	WeightDescription     = 30
	WeightTag             = 20
	WeightLabel           = 25
	WeightUpdatedToday    = 10
	WeightUpdatedThisWeek = 5
)

// DescriptionExcerpt is the number of characters kept in a description highlight.
const DescriptionExcerpt = 100

const day = 24 * time.Hour

// MatchType names the strongest field category that matched.
type MatchType string

// MatchType constants, highest priority first.
const (
	TitleStartsWith     MatchType = "title_starts_with"
	TitleContains       MatchType = "title_contains"
	DescriptionContains MatchType = "description_contains"
	TagMatch            MatchType = "tag_match"
	LabelMatch          MatchType = "label_match"
	PartialMatch        MatchType = "partial_match"
)

// Document is anything that can be scored. Entities without tags or
// labels return nil for those.
type Document interface {
	Title() string
	Description() string
	Tags() []string
	LabelNames() []string
	UpdatedAt() time.Time
}

// Outcome is the result of scoring one document.
type Outcome struct {
	Score      float64
	MatchType  MatchType
	Highlights []string
}

// Evaluate scores doc against query at time now.
// Matching is case-insensitive substring containment on the verbatim query.
// A zero score is a valid outcome.
func Evaluate(doc Document, query string, now time.Time) Outcome {
	q := strings.ToLower(query)
	title := strings.ToLower(doc.Title())
	desc := strings.ToLower(doc.Description())

	titleHit := strings.Contains(title, q)
	startsHit := strings.HasPrefix(title, q)
	descHit := doc.Description() != "" && strings.Contains(desc, q)

	var matchingTags []string
	for _, tag := range doc.Tags() {
		if strings.Contains(strings.ToLower(tag), q) {
			matchingTags = append(matchingTags, tag)
		}
	}
	labelHits := 0
	for _, name := range doc.LabelNames() {
		if name != "" && strings.Contains(strings.ToLower(name), q) {
			labelHits++
		}
	}

	var s float64
	if titleHit {
		s += WeightTitleContains
		if startsHit {
			s += WeightTitleStartsWith
		}
	}
	if descHit {
		s += WeightDescription
	}
	s += float64(WeightTag * len(matchingTags))
	s += float64(WeightLabel * labelHits)
	s += recency(doc.UpdatedAt(), now)

	out := Outcome{Score: s, Highlights: []string{}}
	switch {
	case startsHit:
		out.MatchType = TitleStartsWith
	case titleHit:
		out.MatchType = TitleContains
	case descHit:
		out.MatchType = DescriptionContains
	case len(matchingTags) > 0:
		out.MatchType = TagMatch
	case labelHits > 0:
		out.MatchType = LabelMatch
	default:
		out.MatchType = PartialMatch
	}

	if titleHit {
		out.Highlights = append(out.Highlights, "Title: "+doc.Title())
	}
	if descHit {
		out.Highlights = append(out.Highlights, "Description: "+excerpt(doc.Description()))
	}
	if len(matchingTags) > 0 {
		out.Highlights = append(out.Highlights, "Tags: "+strings.Join(matchingTags, ", "))
	}

	return out
}

func recency(updated, now time.Time) float64 {
	if updated.IsZero() {
		return 0
	}
	age := now.Sub(updated)
	switch {
	case age < day:
		return WeightUpdatedToday
	case age < 7*day:
		return WeightUpdatedThisWeek
	}
	return 0
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= DescriptionExcerpt {
		return s
	}
	return string(r[:DescriptionExcerpt]) + "..."
}
