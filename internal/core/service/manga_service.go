package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/otakulist/watchlist-api/internal/core/domain"
	"github.com/otakulist/watchlist-api/internal/core/ports"
)

// MangaService implements the ownership-scoped use cases for manga entries.
// The access rules are identical to AnimeService; manga simply carry fewer
// fields and no studio reference.
type MangaService struct {
	manga   ports.MangaRepository
	replays ReplayStore
	log     zerolog.Logger
}

func NewMangaService(manga ports.MangaRepository, replays ReplayStore, log zerolog.Logger) *MangaService {
	return &MangaService{manga: manga, replays: replays, log: log}
}

func (s *MangaService) Create(ctx context.Context, ident domain.Identity, in ports.MangaInput, idempotencyKey string) (*domain.Manga, bool, error) {
	if idempotencyKey != "" && s.replays != nil {
		if id, ok, err := s.replays.Lookup(ctx, ident.UserID, idempotencyKey); err != nil {
			s.log.Warn().Err(err).Msg("replay lookup failed, creating anyway")
		} else if ok {
			if existing, err := s.fetchOwned(ctx, ident, id); err == nil {
				s.log.Info().Str("idempotency_key", idempotencyKey).Str("manga_id", id).Msg("idempotent replay")
				return existing, true, nil
			}
		}
	}

	taken, err := s.manga.ExistsByTitleAndUser(ctx, in.Title, ident.UserID)
	if err != nil {
		return nil, false, err
	}
	if taken {
		return nil, false, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, in.Title)
	}

	now := time.Now().UTC()
	manga := &domain.Manga{
		Title:      in.Title,
		Status:     in.Status,
		Rating:     in.Rating,
		IsFavorite: in.IsFavorite,
		UserID:     ident.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.manga.Create(ctx, manga)
	if err != nil {
		return nil, false, err
	}

	if idempotencyKey != "" && s.replays != nil {
		if err := s.replays.Remember(ctx, ident.UserID, idempotencyKey, created.ID); err != nil {
			s.log.Warn().Err(err).Str("manga_id", created.ID).Msg("failed to record idempotency key")
		}
	}

	s.log.Info().Str("manga_id", created.ID).Str("username", ident.Username).Msg("manga created")
	return created, false, nil
}

func (s *MangaService) List(ctx context.Context, ident domain.Identity, req ports.PageRequest) (*ports.MangaPage, error) {
	q, err := buildPageQuery(req, mangaSortFields)
	if err != nil {
		return nil, err
	}

	items, total, err := s.manga.FindPageByUser(ctx, ident.UserID, q)
	if err != nil {
		return nil, err
	}

	totalPages, isLast := pageMeta(q, total)
	return &ports.MangaPage{
		Items:         items,
		PageNumber:    q.Page,
		PageSize:      q.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		IsLast:        isLast,
	}, nil
}

func (s *MangaService) Get(ctx context.Context, ident domain.Identity, id string) (*domain.Manga, error) {
	return s.fetchOwned(ctx, ident, id)
}

func (s *MangaService) Update(ctx context.Context, ident domain.Identity, id string, in ports.MangaInput) (*domain.Manga, error) {
	manga, err := s.fetchOwned(ctx, ident, id)
	if err != nil {
		return nil, err
	}

	if manga.Title != in.Title {
		taken, err := s.manga.ExistsByTitleAndUser(ctx, in.Title, ident.UserID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, in.Title)
		}
	}

	manga.Title = in.Title
	manga.Status = in.Status
	manga.Rating = in.Rating
	manga.IsFavorite = in.IsFavorite
	manga.UpdatedAt = time.Now().UTC()

	return s.manga.Update(ctx, manga)
}

func (s *MangaService) Delete(ctx context.Context, ident domain.Identity, id string) error {
	if _, err := s.fetchOwned(ctx, ident, id); err != nil {
		return err
	}
	if err := s.manga.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("manga_id", id).Str("username", ident.Username).Msg("manga deleted")
	return nil
}

func (s *MangaService) Search(ctx context.Context, ident domain.Identity, filter ports.MangaFilter) ([]*domain.Manga, error) {
	filter.UserID = ident.UserID
	return s.manga.FindAllByFilter(ctx, filter)
}

func (s *MangaService) MeanRating(ctx context.Context, ident domain.Identity) (float64, error) {
	return s.manga.AverageRatingByUser(ctx, ident.UserID)
}

func (s *MangaService) fetchOwned(ctx context.Context, ident domain.Identity, id string) (*domain.Manga, error) {
	manga, err := s.manga.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if manga.UserID != ident.UserID {
		return nil, fmt.Errorf("%w: manga %s", domain.ErrForbidden, id)
	}
	return manga, nil
}
