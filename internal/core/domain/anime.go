package domain

import (
	"strings"
	"time"
)

// AnimeType distinguishes series from films.
type AnimeType string

const (
	AnimeTypeTV    AnimeType = "TV"
	AnimeTypeMovie AnimeType = "MOVIE"
)

// ParseAnimeType converts a wire value to an AnimeType, case-insensitively.
func ParseAnimeType(value string) (AnimeType, bool) {
	for _, t := range []AnimeType{AnimeTypeTV, AnimeTypeMovie} {
		if strings.EqualFold(value, string(t)) {
			return t, true
		}
	}
	return "", false
}

// AnimeStatus is the watch state of an entry.
type AnimeStatus string

const (
	AnimeStatusWatching    AnimeStatus = "WATCHING"
	AnimeStatusCompleted   AnimeStatus = "COMPLETED"
	AnimeStatusPlanToWatch AnimeStatus = "PLAN TO WATCH"
)

// ParseAnimeStatus converts a wire value to an AnimeStatus, case-insensitively.
func ParseAnimeStatus(value string) (AnimeStatus, bool) {
	for _, s := range []AnimeStatus{AnimeStatusWatching, AnimeStatusCompleted, AnimeStatusPlanToWatch} {
		if strings.EqualFold(value, string(s)) {
			return s, true
		}
	}
	return "", false
}

// Anime is a single watchlist entry. Every entry has exactly one owning user,
// assigned at creation and never reassigned. Titles are unique per owner;
// the comparison is exact and case-sensitive. Rating is nil when the user has
// not rated the entry — absence is distinct from zero.
type Anime struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Type       AnimeType   `json:"type"`
	Status     AnimeStatus `json:"status"`
	Rating     *int        `json:"rating,omitempty"`
	IsFavorite bool        `json:"is_favorite"`
	IsComplete bool        `json:"is_complete"`
	StudioID   string      `json:"studio_id"`
	UserID     string      `json:"-"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
