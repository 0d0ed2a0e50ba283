package domain

import (
	"strings"
	"time"
)

// MangaStatus is the read state of an entry.
type MangaStatus string

const (
	MangaStatusReading    MangaStatus = "READING"
	MangaStatusCompleted  MangaStatus = "COMPLETED"
	MangaStatusPlanToRead MangaStatus = "PLAN TO READ"
)

// ParseMangaStatus converts a wire value to a MangaStatus, case-insensitively.
func ParseMangaStatus(value string) (MangaStatus, bool) {
	for _, s := range []MangaStatus{MangaStatusReading, MangaStatusCompleted, MangaStatusPlanToRead} {
		if strings.EqualFold(value, string(s)) {
			return s, true
		}
	}
	return "", false
}

// Manga is a single reading-list entry. Ownership and title-uniqueness rules
// match Anime: one immutable owner, titles unique per owner, case-sensitive.
type Manga struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Status     MangaStatus `json:"status"`
	Rating     *int        `json:"rating,omitempty"`
	IsFavorite bool        `json:"is_favorite"`
	UserID     string      `json:"-"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
