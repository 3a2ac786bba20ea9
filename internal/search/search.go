// Package search filters and sorts lists that were fetched unordered from
// the database. Every function returns a new slice and leaves its input
// untouched.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/joshua-takyi/crumbs/internal/models"
	"golang.org/x/text/cases"
)

const (
	// DropdownCap bounds each category of the unified search.
	DropdownCap = 5
	// MinQueryLength is the shortest query the unified search answers.
	MinQueryLength = 2

	AnyValue = "all"
)

type SortKey string

const (
	SortDefault       SortKey = ""
	SortByRating      SortKey = "rating"
	SortByReviewCount SortKey = "reviews"
)

type ReviewSort string

const (
	ReviewsNewest  ReviewSort = "newest"
	ReviewsHighest ReviewSort = "highest"
	ReviewsLowest  ReviewSort = "lowest"
)

// Query describes a location listing. Empty or "all" predicates match
// everything; a zero Limit means no limit.
type Query struct {
	Text     string  `form:"q"`
	SchoolID string  `form:"school_id"`
	Area     string  `form:"area"`
	Type     string  `form:"type"`
	Sort     SortKey `form:"sort"`
	Limit    int     `form:"limit" binding:"omitempty,min=0,max=100"`
	Offset   int     `form:"offset" binding:"omitempty,min=0"`
}

// Results is the unified dropdown answer.
type Results struct {
	Schools   []models.School    `json:"schools"`
	Locations []*models.Location `json:"locations"`
	Users     []*models.User     `json:"users"`
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// Contains reports whether q occurs in field ignoring case. An empty q
// matches every field.
func Contains(field, q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	return strings.Contains(fold(field), fold(q))
}

// Filter keeps the elements for which keep returns true, stopping once
// limit elements were kept when limit is positive.
func Filter[T any](src []T, keep func(T) bool, limit int) []T {
	out := make([]T, 0)
	for _, item := range src {
		if !keep(item) {
			continue
		}
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func matches(value, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" || strings.EqualFold(want, AnyValue) {
		return true
	}
	return strings.EqualFold(value, want)
}

// Locations applies the text and structural predicates of q, sorts, then
// pages the result.
func Locations(src []*models.Location, q Query) []*models.Location {
	out := Filter(src, func(l *models.Location) bool {
		return l != nil &&
			Contains(l.Name, q.Text) &&
			matches(l.SchoolID, q.SchoolID) &&
			matches(l.CampusArea, q.Area) &&
			matches(string(l.Type), q.Type)
	}, 0)
	SortLocations(out, q.Sort)
	return Page(out, q.Offset, q.Limit)
}

// SortLocations orders locations in place. Unknown keys keep input order.
func SortLocations(locs []*models.Location, key SortKey) {
	switch key {
	case SortByRating:
		sort.SliceStable(locs, func(i, j int) bool { return locs[i].AvgRating > locs[j].AvgRating })
	case SortByReviewCount:
		sort.SliceStable(locs, func(i, j int) bool { return locs[i].ReviewCount > locs[j].ReviewCount })
	}
}

// Page returns src[offset:offset+limit] clamped to the slice bounds.
func Page[T any](src []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(src) {
		return src[:0]
	}
	src = src[offset:]
	if limit > 0 && limit < len(src) {
		src = src[:limit]
	}
	return src
}

func Schools(src []models.School, q string, limit int) []models.School {
	return Filter(src, func(s models.School) bool {
		return Contains(s.Name, q) || Contains(s.ShortName, q)
	}, limit)
}

func Users(src []*models.User, q string, limit int) []*models.User {
	return Filter(src, func(u *models.User) bool {
		return u != nil && Contains(u.DisplayName, q)
	}, limit)
}

// Dropdown runs the unified search. Queries shorter than MinQueryLength
// return empty categories. Only approved locations are considered.
func Dropdown(q string, schools []models.School, locations []*models.Location, users []*models.User) Results {
	res := Results{
		Schools:   []models.School{},
		Locations: []*models.Location{},
		Users:     []*models.User{},
	}
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return res
	}

	res.Schools = Schools(schools, q, DropdownCap)
	res.Locations = Filter(locations, func(l *models.Location) bool {
		return l != nil && l.IsApproved() && Contains(l.Name, q)
	}, DropdownCap)
	res.Users = Users(users, q, DropdownCap)
	return res
}

// SortReviews returns the reviews ordered by key; newest first by default.
func SortReviews(src []*models.Review, key ReviewSort) []*models.Review {
	out := make([]*models.Review, len(src))
	copy(out, src)

	var less func(i, j int) bool
	switch key {
	case ReviewsHighest:
		less = func(i, j int) bool { return out[i].OverallRating > out[j].OverallRating }
	case ReviewsLowest:
		less = func(i, j int) bool { return out[i].OverallRating < out[j].OverallRating }
	default:
		less = func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) }
	}
	sort.SliceStable(out, less)
	return out
}
