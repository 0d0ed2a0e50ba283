package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/otakulist/watchlist-api/internal/core/domain"
	"github.com/otakulist/watchlist-api/internal/core/ports"
)

// ReplayStore records created-entry ids by idempotency key so that a retried
// create request returns the original entry instead of hitting the
// title-uniqueness guard.
type ReplayStore interface {
	Lookup(ctx context.Context, ownerID, key string) (string, bool, error)
	Remember(ctx context.Context, ownerID, key, id string) error
}

// AnimeService implements the ownership-scoped use cases for anime entries.
type AnimeService struct {
	anime   ports.AnimeRepository
	studios ports.StudioRepository
	replays ReplayStore
	log     zerolog.Logger
}

func NewAnimeService(anime ports.AnimeRepository, studios ports.StudioRepository, replays ReplayStore, log zerolog.Logger) *AnimeService {
	return &AnimeService{anime: anime, studios: studios, replays: replays, log: log}
}

// Create stores a new entry owned by the caller. The title must be unused by
// that caller; other users may hold the same title. The referenced studio
// must exist.
func (s *AnimeService) Create(ctx context.Context, ident domain.Identity, in ports.AnimeInput, idempotencyKey string) (*domain.Anime, bool, error) {
	if idempotencyKey != "" && s.replays != nil {
		if id, ok, err := s.replays.Lookup(ctx, ident.UserID, idempotencyKey); err != nil {
			s.log.Warn().Err(err).Msg("replay lookup failed, creating anyway")
		} else if ok {
			if existing, err := s.fetchOwned(ctx, ident, id); err == nil {
				s.log.Info().Str("idempotency_key", idempotencyKey).Str("anime_id", id).Msg("idempotent replay")
				return existing, true, nil
			}
		}
	}

	if _, err := s.studios.FindByID(ctx, in.StudioID); err != nil {
		return nil, false, err
	}

	taken, err := s.anime.ExistsByTitleAndUser(ctx, in.Title, ident.UserID)
	if err != nil {
		return nil, false, err
	}
	if taken {
		return nil, false, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, in.Title)
	}

	now := time.Now().UTC()
	anime := &domain.Anime{
		Title:      in.Title,
		Type:       in.Type,
		Status:     in.Status,
		Rating:     in.Rating,
		IsFavorite: in.IsFavorite,
		IsComplete: in.IsComplete,
		StudioID:   in.StudioID,
		UserID:     ident.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.anime.Create(ctx, anime)
	if err != nil {
		return nil, false, err
	}

	if idempotencyKey != "" && s.replays != nil {
		if err := s.replays.Remember(ctx, ident.UserID, idempotencyKey, created.ID); err != nil {
			s.log.Warn().Err(err).Str("anime_id", created.ID).Msg("failed to record idempotency key")
		}
	}

	s.log.Info().Str("anime_id", created.ID).Str("username", ident.Username).Msg("anime created")
	return created, false, nil
}

// List returns one page of the caller's entries. Cross-owner rows are never
// returned regardless of the requested window.
func (s *AnimeService) List(ctx context.Context, ident domain.Identity, req ports.PageRequest) (*ports.AnimePage, error) {
	q, err := buildPageQuery(req, animeSortFields)
	if err != nil {
		return nil, err
	}

	items, total, err := s.anime.FindPageByUser(ctx, ident.UserID, q)
	if err != nil {
		return nil, err
	}

	totalPages, isLast := pageMeta(q, total)
	return &ports.AnimePage{
		Items:         items,
		PageNumber:    q.Page,
		PageSize:      q.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		IsLast:        isLast,
	}, nil
}

func (s *AnimeService) Get(ctx context.Context, ident domain.Identity, id string) (*domain.Anime, error) {
	return s.fetchOwned(ctx, ident, id)
}

// Update performs a full-field replacement. The uniqueness guard runs only
// when the title actually changed: renaming an entry to its current title is
// a no-op, not a conflict.
func (s *AnimeService) Update(ctx context.Context, ident domain.Identity, id string, in ports.AnimeInput) (*domain.Anime, error) {
	anime, err := s.fetchOwned(ctx, ident, id)
	if err != nil {
		return nil, err
	}

	if anime.Title != in.Title {
		taken, err := s.anime.ExistsByTitleAndUser(ctx, in.Title, ident.UserID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, in.Title)
		}
	}

	if _, err := s.studios.FindByID(ctx, in.StudioID); err != nil {
		return nil, err
	}

	anime.Title = in.Title
	anime.Type = in.Type
	anime.Status = in.Status
	anime.Rating = in.Rating
	anime.IsFavorite = in.IsFavorite
	anime.IsComplete = in.IsComplete
	anime.StudioID = in.StudioID
	anime.UpdatedAt = time.Now().UTC()

	return s.anime.Update(ctx, anime)
}

func (s *AnimeService) Delete(ctx context.Context, ident domain.Identity, id string) error {
	if _, err := s.fetchOwned(ctx, ident, id); err != nil {
		return err
	}
	if err := s.anime.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("anime_id", id).Str("username", ident.Username).Msg("anime deleted")
	return nil
}

// Search applies the supplied predicates ANDed together; omitted predicates
// contribute no constraint. The owner predicate is always included.
func (s *AnimeService) Search(ctx context.Context, ident domain.Identity, filter ports.AnimeFilter) ([]*domain.Anime, error) {
	filter.UserID = ident.UserID
	return s.anime.FindAllByFilter(ctx, filter)
}

// ByStudio lists the caller's entries for one studio. The studio must exist.
func (s *AnimeService) ByStudio(ctx context.Context, ident domain.Identity, studioID string) ([]*domain.Anime, error) {
	if _, err := s.studios.FindByID(ctx, studioID); err != nil {
		return nil, err
	}
	return s.anime.FindByStudioAndUser(ctx, studioID, ident.UserID)
}

// MeanRating averages the caller's rated entries. Unrated entries are
// excluded from the average; with no rated entries the result is 0.0.
func (s *AnimeService) MeanRating(ctx context.Context, ident domain.Identity) (float64, error) {
	return s.anime.AverageRatingByUser(ctx, ident.UserID)
}

// fetchOwned loads an entry and enforces ownership. A missing id fails with
// ErrNotFound; an entry owned by someone else fails with ErrForbidden, so the
// two cases map to distinct HTTP statuses.
func (s *AnimeService) fetchOwned(ctx context.Context, ident domain.Identity, id string) (*domain.Anime, error) {
	anime, err := s.anime.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if anime.UserID != ident.UserID {
		return nil, fmt.Errorf("%w: anime %s", domain.ErrForbidden, id)
	}
	return anime, nil
}
