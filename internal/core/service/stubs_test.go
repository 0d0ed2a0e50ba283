package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/otakulist/watchlist-api/internal/core/domain"
	"github.com/otakulist/watchlist-api/internal/core/ports"
)

// In-memory repository stubs shared by the service tests. They enforce the
// same uniqueness rules as the real persistence layer so the backstop paths
// can be exercised.

type memUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateUsername, user.Username)
		}
	}
	r.seq++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("u%d", r.seq)
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
}

func (r *memUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) delete(id string) {
	delete(r.users, id)
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}

type memAnimeRepo struct {
	seq  int
	rows map[string]*domain.Anime
}

func newMemAnimeRepo() *memAnimeRepo {
	return &memAnimeRepo{rows: make(map[string]*domain.Anime)}
}

func (r *memAnimeRepo) Create(_ context.Context, anime *domain.Anime) (*domain.Anime, error) {
	for _, a := range r.rows {
		if a.UserID == anime.UserID && a.Title == anime.Title {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, anime.Title)
		}
	}
	r.seq++
	stored := cloneAnime(anime)
	stored.ID = fmt.Sprintf("a%d", r.seq)
	r.rows[stored.ID] = stored
	return cloneAnime(stored), nil
}

func (r *memAnimeRepo) FindByID(_ context.Context, id string) (*domain.Anime, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: anime %s", domain.ErrNotFound, id)
	}
	return cloneAnime(a), nil
}

func (r *memAnimeRepo) FindPageByUser(_ context.Context, userID string, q ports.PageQuery) ([]*domain.Anime, int64, error) {
	var owned []*domain.Anime
	for _, a := range r.rows {
		if a.UserID == userID {
			owned = append(owned, cloneAnime(a))
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if q.Sort.Descending {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].ID < owned[j].ID
	})

	total := int64(len(owned))
	start := q.Page * q.Size
	if start >= len(owned) {
		return nil, total, nil
	}
	end := start + q.Size
	if end > len(owned) {
		end = len(owned)
	}
	return owned[start:end], total, nil
}

func (r *memAnimeRepo) FindAllByFilter(_ context.Context, filter ports.AnimeFilter) ([]*domain.Anime, error) {
	var matched []*domain.Anime
	for _, a := range r.rows {
		if a.UserID != filter.UserID {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Type != nil && a.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Rating != nil && (a.Rating == nil || *a.Rating != *filter.Rating) {
			continue
		}
		if filter.IsFavorite != nil && a.IsFavorite != *filter.IsFavorite {
			continue
		}
		if filter.IsComplete != nil && a.IsComplete != *filter.IsComplete {
			continue
		}
		matched = append(matched, cloneAnime(a))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })
	return matched, nil
}

func (r *memAnimeRepo) FindByStudioAndUser(_ context.Context, studioID, userID string) ([]*domain.Anime, error) {
	var matched []*domain.Anime
	for _, a := range r.rows {
		if a.StudioID == studioID && a.UserID == userID {
			matched = append(matched, cloneAnime(a))
		}
	}
	return matched, nil
}

func (r *memAnimeRepo) ExistsByTitleAndUser(_ context.Context, title, userID string) (bool, error) {
	for _, a := range r.rows {
		if a.UserID == userID && a.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAnimeRepo) Update(_ context.Context, anime *domain.Anime) (*domain.Anime, error) {
	if _, ok := r.rows[anime.ID]; !ok {
		return nil, fmt.Errorf("%w: anime %s", domain.ErrNotFound, anime.ID)
	}
	for id, a := range r.rows {
		if id != anime.ID && a.UserID == anime.UserID && a.Title == anime.Title {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, anime.Title)
		}
	}
	r.rows[anime.ID] = cloneAnime(anime)
	return cloneAnime(anime), nil
}

func (r *memAnimeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("%w: anime %s", domain.ErrNotFound, id)
	}
	delete(r.rows, id)
	return nil
}

func (r *memAnimeRepo) DeleteByStudio(_ context.Context, studioID string) error {
	for id, a := range r.rows {
		if a.StudioID == studioID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *memAnimeRepo) AverageRatingByUser(_ context.Context, userID string) (float64, error) {
	var sum, n int
	for _, a := range r.rows {
		if a.UserID == userID && a.Rating != nil {
			sum += *a.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

func cloneAnime(a *domain.Anime) *domain.Anime {
	c := *a
	if a.Rating != nil {
		r := *a.Rating
		c.Rating = &r
	}
	return &c
}

type memMangaRepo struct {
	seq  int
	rows map[string]*domain.Manga
}

func newMemMangaRepo() *memMangaRepo {
	return &memMangaRepo{rows: make(map[string]*domain.Manga)}
}

func (r *memMangaRepo) Create(_ context.Context, manga *domain.Manga) (*domain.Manga, error) {
	for _, m := range r.rows {
		if m.UserID == manga.UserID && m.Title == manga.Title {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, manga.Title)
		}
	}
	r.seq++
	stored := cloneManga(manga)
	stored.ID = fmt.Sprintf("m%d", r.seq)
	r.rows[stored.ID] = stored
	return cloneManga(stored), nil
}

func (r *memMangaRepo) FindByID(_ context.Context, id string) (*domain.Manga, error) {
	m, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: manga %s", domain.ErrNotFound, id)
	}
	return cloneManga(m), nil
}

func (r *memMangaRepo) FindPageByUser(_ context.Context, userID string, q ports.PageQuery) ([]*domain.Manga, int64, error) {
	var owned []*domain.Manga
	for _, m := range r.rows {
		if m.UserID == userID {
			owned = append(owned, cloneManga(m))
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if q.Sort.Descending {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].ID < owned[j].ID
	})

	total := int64(len(owned))
	start := q.Page * q.Size
	if start >= len(owned) {
		return nil, total, nil
	}
	end := start + q.Size
	if end > len(owned) {
		end = len(owned)
	}
	return owned[start:end], total, nil
}

func (r *memMangaRepo) FindAllByFilter(_ context.Context, filter ports.MangaFilter) ([]*domain.Manga, error) {
	var matched []*domain.Manga
	for _, m := range r.rows {
		if m.UserID != filter.UserID {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		if filter.Rating != nil && (m.Rating == nil || *m.Rating != *filter.Rating) {
			continue
		}
		if filter.IsFavorite != nil && m.IsFavorite != *filter.IsFavorite {
			continue
		}
		matched = append(matched, cloneManga(m))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })
	return matched, nil
}

func (r *memMangaRepo) ExistsByTitleAndUser(_ context.Context, title, userID string) (bool, error) {
	for _, m := range r.rows {
		if m.UserID == userID && m.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMangaRepo) Update(_ context.Context, manga *domain.Manga) (*domain.Manga, error) {
	if _, ok := r.rows[manga.ID]; !ok {
		return nil, fmt.Errorf("%w: manga %s", domain.ErrNotFound, manga.ID)
	}
	for id, m := range r.rows {
		if id != manga.ID && m.UserID == manga.UserID && m.Title == manga.Title {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateTitle, manga.Title)
		}
	}
	r.rows[manga.ID] = cloneManga(manga)
	return cloneManga(manga), nil
}

func (r *memMangaRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("%w: manga %s", domain.ErrNotFound, id)
	}
	delete(r.rows, id)
	return nil
}

func (r *memMangaRepo) AverageRatingByUser(_ context.Context, userID string) (float64, error) {
	var sum, n int
	for _, m := range r.rows {
		if m.UserID == userID && m.Rating != nil {
			sum += *m.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

func cloneManga(m *domain.Manga) *domain.Manga {
	c := *m
	if m.Rating != nil {
		r := *m.Rating
		c.Rating = &r
	}
	return &c
}

type memStudioRepo struct {
	seq  int
	rows map[string]*domain.Studio
}

func newMemStudioRepo() *memStudioRepo {
	return &memStudioRepo{rows: make(map[string]*domain.Studio)}
}

func (r *memStudioRepo) Create(_ context.Context, studio *domain.Studio) (*domain.Studio, error) {
	for _, s := range r.rows {
		if s.Name == studio.Name {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateName, studio.Name)
		}
	}
	r.seq++
	stored := *studio
	stored.ID = fmt.Sprintf("s%d", r.seq)
	r.rows[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *memStudioRepo) FindAll(_ context.Context) ([]*domain.Studio, error) {
	var all []*domain.Studio
	for _, s := range r.rows {
		copied := *s
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *memStudioRepo) FindByID(_ context.Context, id string) (*domain.Studio, error) {
	s, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: studio %s", domain.ErrNotFound, id)
	}
	copied := *s
	return &copied, nil
}

func (r *memStudioRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, s := range r.rows {
		if s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *memStudioRepo) Update(_ context.Context, studio *domain.Studio) (*domain.Studio, error) {
	if _, ok := r.rows[studio.ID]; !ok {
		return nil, fmt.Errorf("%w: studio %s", domain.ErrNotFound, studio.ID)
	}
	for id, s := range r.rows {
		if id != studio.ID && s.Name == studio.Name {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateName, studio.Name)
		}
	}
	copied := *studio
	r.rows[studio.ID] = &copied
	result := copied
	return &result, nil
}

func (r *memStudioRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return fmt.Errorf("%w: studio %s", domain.ErrNotFound, id)
	}
	delete(r.rows, id)
	return nil
}

type memReplayStore struct {
	entries map[string]string
}

func newMemReplayStore() *memReplayStore {
	return &memReplayStore{entries: make(map[string]string)}
}

func (s *memReplayStore) Lookup(_ context.Context, ownerID, key string) (string, bool, error) {
	id, ok := s.entries[ownerID+":"+key]
	return id, ok, nil
}

func (s *memReplayStore) Remember(_ context.Context, ownerID, key, id string) error {
	s.entries[ownerID+":"+key] = id
	return nil
}

func intPtr(v int) *int { return &v }

func testIdentity(userID string) domain.Identity {
	return domain.Identity{UserID: userID, Username: "user-" + userID, Roles: []string{domain.RoleUser}}
}

func adminIdentity(userID string) domain.Identity {
	return domain.Identity{UserID: userID, Username: "admin-" + userID, Roles: []string{domain.RoleAdmin, domain.RoleUser}}
}

func seedStudio(repo *memStudioRepo, name string) *domain.Studio {
	now := time.Now().UTC()
	created, err := repo.Create(context.Background(), &domain.Studio{Name: name, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		panic(err)
	}
	return created
}
