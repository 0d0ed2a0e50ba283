package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/otakulist/watchlist-api/internal/core/domain"
	"github.com/otakulist/watchlist-api/internal/core/ports"
)

// StudioService manages the shared studio catalogue. Reads are open to any
// authenticated user; mutations are admin-only via an explicit capability
// check at the top of each operation.
type StudioService struct {
	studios ports.StudioRepository
	anime   ports.AnimeRepository
	log     zerolog.Logger
}

func NewStudioService(studios ports.StudioRepository, anime ports.AnimeRepository, log zerolog.Logger) *StudioService {
	return &StudioService{studios: studios, anime: anime, log: log}
}

// requireAdmin is the capability check guarding catalogue mutation.
func requireAdmin(ident domain.Identity) error {
	if !ident.HasRole(domain.RoleAdmin) {
		return fmt.Errorf("%w: requires %s", domain.ErrForbidden, domain.RoleAdmin)
	}
	return nil
}

func (s *StudioService) Create(ctx context.Context, ident domain.Identity, name string) (*domain.Studio, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}

	taken, err := s.studios.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateName, name)
	}

	now := time.Now().UTC()
	created, err := s.studios.Create(ctx, &domain.Studio{Name: name, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("studio_id", created.ID).Str("name", name).Msg("studio created")
	return created, nil
}

func (s *StudioService) List(ctx context.Context) ([]*domain.Studio, error) {
	return s.studios.FindAll(ctx)
}

func (s *StudioService) Get(ctx context.Context, id string) (*domain.Studio, error) {
	return s.studios.FindByID(ctx, id)
}

// Update renames a studio. Renaming to the current name is exempt from the
// global uniqueness check.
func (s *StudioService) Update(ctx context.Context, ident domain.Identity, id, name string) (*domain.Studio, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}

	studio, err := s.studios.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if studio.Name != name {
		taken, err := s.studios.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateName, name)
		}
	}

	studio.Name = name
	studio.UpdatedAt = time.Now().UTC()
	return s.studios.Update(ctx, studio)
}

// Delete removes a studio and cascades to the anime that reference it. The
// cascade is explicit here rather than delegated to storage annotations:
// children go first, so a failure leaves no orphaned references.
func (s *StudioService) Delete(ctx context.Context, ident domain.Identity, id string) error {
	if err := requireAdmin(ident); err != nil {
		return err
	}

	if _, err := s.studios.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.anime.DeleteByStudio(ctx, id); err != nil {
		return fmt.Errorf("delete studio %s: cascade anime: %w", id, err)
	}
	if err := s.studios.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("studio_id", id).Str("username", ident.Username).Msg("studio deleted")
	return nil
}
