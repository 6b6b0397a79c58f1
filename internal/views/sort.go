package views

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/getmentor/mentor-match-client/internal/models"
)

// SortKey orders the mentor list
type SortKey string

const (
	SortNone  SortKey = ""
	SortName  SortKey = "name"
	SortSkill SortKey = "skill"
)

// Valid reports whether k is a known sort key
func (k SortKey) Valid() bool {
	return k == SortNone || k == SortName || k == SortSkill
}

// FilterBySkill keeps mentors with at least one skill containing term,
// ignoring case. A blank term keeps everyone.
func FilterBySkill(mentors []models.User, term string) []models.User {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.User, 0, len(mentors))
	for _, mentor := range mentors {
		if term == "" || hasSkill(mentor, term) {
			out = append(out, mentor)
		}
	}
	return out
}

func hasSkill(mentor models.User, lowerTerm string) bool {
	for _, skill := range mentor.Profile.Skills {
		if strings.Contains(strings.ToLower(skill), lowerTerm) {
			return true
		}
	}
	return false
}

// SortMentors sorts in place with locale-aware collation. The sort is
// stable, so equal keys keep their server order.
func SortMentors(mentors []models.User, key SortKey, tag language.Tag) {
	var sortKey func(models.User) string
	switch key {
	case SortName:
		sortKey = func(u models.User) string { return u.Profile.Name }
	case SortSkill:
		sortKey = func(u models.User) string { return models.JoinSkills(u.Profile.Skills) }
	default:
		return
	}

	// a Collator is not safe for concurrent use
	collator := collate.New(tag)
	sort.SliceStable(mentors, func(i, j int) bool {
		return collator.CompareString(sortKey(mentors[i]), sortKey(mentors[j])) < 0
	})
}
