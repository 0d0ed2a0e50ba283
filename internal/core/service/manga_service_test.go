package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/otakulist/watchlist-api/internal/core/domain"
	"github.com/otakulist/watchlist-api/internal/core/ports"
)

type mangaFixture struct {
	svc     *MangaService
	manga   *memMangaRepo
	replays *memReplayStore
}

func newMangaFixture() *mangaFixture {
	manga := newMemMangaRepo()
	replays := newMemReplayStore()
	return &mangaFixture{
		svc:     NewMangaService(manga, replays, zerolog.Nop()),
		manga:   manga,
		replays: replays,
	}
}

func mangaInput(title string) ports.MangaInput {
	return ports.MangaInput{Title: title, Status: domain.MangaStatusReading}
}

func (f *mangaFixture) create(t *testing.T, ident domain.Identity, in ports.MangaInput) *domain.Manga {
	t.Helper()
	created, replayed, err := f.svc.Create(context.Background(), ident, in, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if replayed {
		t.Fatal("fresh create reported as replay")
	}
	return created
}

func TestMangaCreateDuplicateTitle(t *testing.T) {
	f := newMangaFixture()
	ident := testIdentity("u1")

	f.create(t, ident, mangaInput("Berserk"))

	if _, _, err := f.svc.Create(context.Background(), ident, mangaInput("Berserk"), ""); !errors.Is(err, domain.ErrDuplicateTitle) {
		t.Fatalf("err = %v, want ErrDuplicateTitle", err)
	}

	// A different owner may hold the same title.
	f.create(t, testIdentity("u2"), mangaInput("Berserk"))
}

func TestMangaCreateIdempotentReplay(t *testing.T) {
	f := newMangaFixture()
	ident := testIdentity("u1")

	first, replayed, err := f.svc.Create(context.Background(), ident, mangaInput("Berserk"), "req-7")
	if err != nil || replayed {
		t.Fatalf("first create: err=%v replayed=%v", err, replayed)
	}

	second, replayed, err := f.svc.Create(context.Background(), ident, mangaInput("Berserk"), "req-7")
	if err != nil {
		t.Fatalf("replayed create: %v", err)
	}
	if !replayed || second.ID != first.ID {
		t.Fatalf("replay = %v id = %q, want replay of %q", replayed, second.ID, first.ID)
	}
	if len(f.manga.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(f.manga.rows))
	}
}

func TestMangaOwnership(t *testing.T) {
	f := newMangaFixture()
	owner := testIdentity("u1")
	created := f.create(t, owner, mangaInput("Berserk"))

	if _, err := f.svc.Get(context.Background(), testIdentity("u2"), created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Get: err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Update(context.Background(), testIdentity("u2"), created.ID, mangaInput("Hijacked")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Update: err = %v, want ErrForbidden", err)
	}
	if err := f.svc.Delete(context.Background(), testIdentity("u2"), created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Delete: err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Get(context.Background(), owner, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing id: err = %v, want ErrNotFound", err)
	}
}

func TestMangaUpdateUniqueness(t *testing.T) {
	f := newMangaFixture()
	ident := testIdentity("u1")
	f.create(t, ident, mangaInput("Berserk"))
	second := f.create(t, ident, mangaInput("Vagabond"))

	// Unchanged title passes the guard.
	in := mangaInput("Vagabond")
	in.Rating = intPtr(9)
	updated, err := f.svc.Update(context.Background(), ident, second.ID, in)
	if err != nil {
		t.Fatalf("same-title update: %v", err)
	}
	if updated.Rating == nil || *updated.Rating != 9 {
		t.Fatalf("rating = %v, want 9", updated.Rating)
	}

	if _, err := f.svc.Update(context.Background(), ident, second.ID, mangaInput("Berserk")); !errors.Is(err, domain.ErrDuplicateTitle) {
		t.Fatalf("err = %v, want ErrDuplicateTitle", err)
	}
}

func TestMangaList(t *testing.T) {
	f := newMangaFixture()
	ident := testIdentity("u1")
	for i := 0; i < 12; i++ {
		f.create(t, ident, mangaInput(fmt.Sprintf("Volume %02d", i)))
	}

	page, err := f.svc.List(context.Background(), ident, ports.PageRequest{Page: 0, Size: 10, SortBy: "id", SortDir: "asc"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 10 || page.TotalElements != 12 || page.TotalPages != 2 || page.IsLast {
		t.Fatalf("page = %+v", page)
	}
}

func TestMangaSearch(t *testing.T) {
	f := newMangaFixture()
	ident := testIdentity("u1")

	reading := mangaInput("Berserk")
	reading.IsFavorite = true
	f.create(t, ident, reading)

	done := mangaInput("Death Note")
	done.Status = domain.MangaStatusCompleted
	f.create(t, ident, done)

	status := domain.MangaStatusCompleted
	results, err := f.svc.Search(context.Background(), ident, ports.MangaFilter{Status: &status})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Death Note" {
		t.Fatalf("results = %+v", results)
	}
}

func TestMangaMeanRating(t *testing.T) {
	f := newMangaFixture()
	ident := testIdentity("u1")

	mean, err := f.svc.MeanRating(context.Background(), ident)
	if err != nil {
		t.Fatalf("MeanRating: %v", err)
	}
	if mean != 0 {
		t.Fatalf("empty mean = %v, want 0", mean)
	}

	rated := mangaInput("Berserk")
	rated.Rating = intPtr(7)
	f.create(t, ident, rated)
	f.create(t, ident, mangaInput("Unrated"))

	mean, err = f.svc.MeanRating(context.Background(), ident)
	if err != nil {
		t.Fatalf("MeanRating: %v", err)
	}
	if mean != 7.0 {
		t.Fatalf("mean = %v, want 7.0", mean)
	}
}
