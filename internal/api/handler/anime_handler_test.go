package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/otakulist/watchlist-api/internal/core/domain"
	"github.com/otakulist/watchlist-api/internal/core/ports"
)

type stubAnimeService struct {
	created    *ports.AnimeInput
	createdKey string
	anime      *domain.Anime
	replayed   bool
	err        error

	listReq    *ports.PageRequest
	page       *ports.AnimePage
	lastFilter *ports.AnimeFilter
}

func (s *stubAnimeService) Create(_ context.Context, _ domain.Identity, in ports.AnimeInput, key string) (*domain.Anime, bool, error) {
	s.created = &in
	s.createdKey = key
	if s.err != nil {
		return nil, false, s.err
	}
	return s.anime, s.replayed, nil
}

func (s *stubAnimeService) List(_ context.Context, _ domain.Identity, page ports.PageRequest) (*ports.AnimePage, error) {
	s.listReq = &page
	if s.err != nil {
		return nil, s.err
	}
	return s.page, nil
}

func (s *stubAnimeService) Get(_ context.Context, _ domain.Identity, _ string) (*domain.Anime, error) {
	return s.anime, s.err
}

func (s *stubAnimeService) Update(_ context.Context, _ domain.Identity, _ string, in ports.AnimeInput) (*domain.Anime, error) {
	s.created = &in
	return s.anime, s.err
}

func (s *stubAnimeService) Delete(_ context.Context, _ domain.Identity, _ string) error {
	return s.err
}

func (s *stubAnimeService) Search(_ context.Context, _ domain.Identity, filter ports.AnimeFilter) ([]*domain.Anime, error) {
	s.lastFilter = &filter
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Anime{s.anime}, nil
}

func (s *stubAnimeService) ByStudio(_ context.Context, _ domain.Identity, _ string) ([]*domain.Anime, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Anime{s.anime}, nil
}

func (s *stubAnimeService) MeanRating(_ context.Context, _ domain.Identity) (float64, error) {
	return 9.0, s.err
}

func sampleAnime() *domain.Anime {
	return &domain.Anime{
		ID:       "a1",
		Title:    "Fullmetal Alchemist",
		Type:     domain.AnimeTypeTV,
		Status:   domain.AnimeStatusWatching,
		StudioID: "s1",
		UserID:   "u1",
	}
}

func TestAnimeCreateHandler(t *testing.T) {
	svc := &stubAnimeService{anime: sampleAnime()}
	h := NewAnimeHandler(svc)

	body := `{"title":"Fullmetal Alchemist","type":"TV","status":"PLAN TO WATCH","studio_id":"s1"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/anime", body)
	c.Request().Header.Set("Idempotency-Key", "req-1")
	authed(c, userIdent("u1"))

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if svc.createdKey != "req-1" {
		t.Fatalf("idempotency key = %q, want req-1", svc.createdKey)
	}
	if svc.created.Status != domain.AnimeStatusPlanToWatch {
		t.Fatalf("status = %q, want PLAN TO WATCH", svc.created.Status)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, leaked := resp["user_id"]; leaked {
		t.Fatal("owner id leaked in response")
	}
	if _, present := resp["rating"]; present {
		t.Fatal("nil rating must be omitted, not rendered as null")
	}
}

func TestAnimeCreateHandlerReplay(t *testing.T) {
	svc := &stubAnimeService{anime: sampleAnime(), replayed: true}
	h := NewAnimeHandler(svc)

	body := `{"title":"Fullmetal Alchemist","type":"TV","status":"WATCHING","studio_id":"s1"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/anime", body)
	c.Request().Header.Set("Idempotency-Key", "req-1")
	authed(c, userIdent("u1"))

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("replay status = %d, want 200", rec.Code)
	}
}

func TestAnimeCreateHandlerRejectsBadEnum(t *testing.T) {
	h := NewAnimeHandler(&stubAnimeService{})

	body := `{"title":"X","type":"OVA","status":"WATCHING","studio_id":"s1"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/anime", body)
	authed(c, userIdent("u1"))

	wantHTTPStatus(t, h.Create(c), http.StatusBadRequest)
}

func TestAnimeCreateHandlerRejectsBadRating(t *testing.T) {
	h := NewAnimeHandler(&stubAnimeService{})

	body := `{"title":"X","type":"TV","status":"WATCHING","rating":11,"studio_id":"s1"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/anime", body)
	authed(c, userIdent("u1"))

	wantHTTPStatus(t, h.Create(c), http.StatusBadRequest)
}

func TestAnimeCreateHandlerConflictPropagates(t *testing.T) {
	h := NewAnimeHandler(&stubAnimeService{err: domain.ErrDuplicateTitle})

	body := `{"title":"Taken","type":"TV","status":"WATCHING","studio_id":"s1"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/anime", body)
	authed(c, userIdent("u1"))

	if err := h.Create(c); !errors.Is(err, domain.ErrDuplicateTitle) {
		t.Fatalf("err = %v, want ErrDuplicateTitle", err)
	}
}

func TestAnimeListHandlerDefaults(t *testing.T) {
	svc := &stubAnimeService{page: &ports.AnimePage{PageSize: 10, IsLast: true}}
	h := NewAnimeHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/anime", "")
	authed(c, userIdent("u1"))

	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	want := ports.PageRequest{Page: 0, Size: 10, SortBy: "id", SortDir: "asc"}
	if *svc.listReq != want {
		t.Fatalf("page request = %+v, want %+v", *svc.listReq, want)
	}
}

func TestAnimeListHandlerParams(t *testing.T) {
	svc := &stubAnimeService{page: &ports.AnimePage{}}
	h := NewAnimeHandler(svc)

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/anime?pageNo=3&pageSize=25&sortBy=rating&sortDir=desc", "")
	authed(c, userIdent("u1"))

	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	want := ports.PageRequest{Page: 3, Size: 25, SortBy: "rating", SortDir: "desc"}
	if *svc.listReq != want {
		t.Fatalf("page request = %+v, want %+v", *svc.listReq, want)
	}

	c, _ = newTestContext(t, http.MethodGet, "/api/v1/anime?pageNo=abc", "")
	authed(c, userIdent("u1"))
	wantHTTPStatus(t, h.List(c), http.StatusBadRequest)
}

func TestAnimeSearchHandlerParams(t *testing.T) {
	svc := &stubAnimeService{anime: sampleAnime()}
	h := NewAnimeHandler(svc)

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/anime/search?title=alchemist&status=PLAN%20TO%20WATCH&is_favorite=true", "")
	authed(c, userIdent("u1"))

	if err := h.Search(c); err != nil {
		t.Fatalf("Search: %v", err)
	}

	filter := svc.lastFilter
	if filter.Title != "alchemist" {
		t.Fatalf("title = %q", filter.Title)
	}
	if filter.Status == nil || *filter.Status != domain.AnimeStatusPlanToWatch {
		t.Fatalf("status = %v", filter.Status)
	}
	if filter.IsFavorite == nil || !*filter.IsFavorite {
		t.Fatalf("is_favorite = %v", filter.IsFavorite)
	}
	if filter.Type != nil || filter.Rating != nil || filter.IsComplete != nil {
		t.Fatalf("absent predicates must stay nil: %+v", filter)
	}

	c, _ = newTestContext(t, http.MethodGet, "/api/v1/anime/search?type=OVA", "")
	authed(c, userIdent("u1"))
	wantHTTPStatus(t, h.Search(c), http.StatusBadRequest)
}

func TestAnimeMeanRatingHandler(t *testing.T) {
	h := NewAnimeHandler(&stubAnimeService{})

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/anime/mean-rating", "")
	authed(c, userIdent("u1"))

	if err := h.MeanRating(c); err != nil {
		t.Fatalf("MeanRating: %v", err)
	}

	var resp meanRatingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.MeanRating != 9.0 {
		t.Fatalf("mean = %v, want 9.0", resp.MeanRating)
	}
}

func TestAnimeDeleteHandler(t *testing.T) {
	h := NewAnimeHandler(&stubAnimeService{})

	c, rec := newTestContext(t, http.MethodDelete, "/api/v1/anime/a1", "")
	c.SetParamNames("id")
	c.SetParamValues("a1")
	authed(c, userIdent("u1"))

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestAnimeHandlerRequiresIdentity(t *testing.T) {
	h := NewAnimeHandler(&stubAnimeService{})

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/anime", "")
	wantHTTPStatus(t, h.List(c), http.StatusUnauthorized)
}
