package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/kinolog/kinolog/internal/catalog"
	"github.com/kinolog/kinolog/internal/config"
	"github.com/kinolog/kinolog/internal/domain"
	"github.com/kinolog/kinolog/internal/recommend"
	"github.com/kinolog/kinolog/internal/registry"
)

// stubCatalog lets each test swap in just the calls it cares about.
type stubCatalog struct {
	searchByTitle func(ctx context.Context, query string, year, page int) (domain.Page, error)
	searchByActor func(ctx context.Context, query string, year, page int) (domain.Page, error)
	discover      func(ctx context.Context, filters catalog.DiscoverFilters, page int) (domain.Page, error)
	popular       func(ctx context.Context, page int) (domain.Page, error)
	genres        func(ctx context.Context) ([]domain.Genre, error)
	details       func(ctx context.Context, movieID int) (domain.Movie, error)
}

func (s *stubCatalog) SearchByTitle(ctx context.Context, query string, year, page int) (domain.Page, error) {
	if s.searchByTitle == nil {
		return domain.Page{}, errors.New("unexpected SearchByTitle call")
	}
	return s.searchByTitle(ctx, query, year, page)
}

func (s *stubCatalog) SearchByActor(ctx context.Context, query string, year, page int) (domain.Page, error) {
	if s.searchByActor == nil {
		return domain.Page{}, errors.New("unexpected SearchByActor call")
	}
	return s.searchByActor(ctx, query, year, page)
}

func (s *stubCatalog) Discover(ctx context.Context, filters catalog.DiscoverFilters, page int) (domain.Page, error) {
	if s.discover == nil {
		return domain.Page{}, errors.New("unexpected Discover call")
	}
	return s.discover(ctx, filters, page)
}

func (s *stubCatalog) Popular(ctx context.Context, page int) (domain.Page, error) {
	if s.popular == nil {
		return domain.Page{}, errors.New("unexpected Popular call")
	}
	return s.popular(ctx, page)
}

func (s *stubCatalog) Genres(ctx context.Context) ([]domain.Genre, error) {
	if s.genres == nil {
		return nil, errors.New("unexpected Genres call")
	}
	return s.genres(ctx)
}

func (s *stubCatalog) Details(ctx context.Context, movieID int) (domain.Movie, error) {
	if s.details == nil {
		return domain.Movie{}, errors.New("unexpected Details call")
	}
	return s.details(ctx, movieID)
}

// fakeRatingsStore backs the registry during handler tests.
type fakeRatingsStore struct {
	entries   map[int]domain.WatchedEntry
	now       time.Time
	saveErr   error
	deleteErr error
}

func newFakeRatingsStore() *fakeRatingsStore {
	return &fakeRatingsStore{
		entries: make(map[int]domain.WatchedEntry),
		now:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRatingsStore) Save(ctx context.Context, movie domain.Movie, values domain.RatingValues) (domain.WatchedEntry, bool, error) {
	if f.saveErr != nil {
		return domain.WatchedEntry{}, false, f.saveErr
	}
	f.now = f.now.Add(time.Second)
	entry, existed := f.entries[movie.ID]
	if !existed {
		entry = domain.WatchedEntry{
			Rating: domain.Rating{MovieID: movie.ID, CreatedAt: f.now},
		}
	}
	entry.RatingValues = values
	entry.UpdatedAt = f.now
	entry.Movie = domain.StoredMovie{ID: movie.ID, Title: movie.Title}
	f.entries[movie.ID] = entry
	return entry, !existed, nil
}

func (f *fakeRatingsStore) ListWithMovies(ctx context.Context) ([]domain.WatchedEntry, error) {
	entries := make([]domain.WatchedEntry, 0, len(f.entries))
	for _, entry := range f.entries {
		entries = append(entries, entry)
	}
	return entries, nil
}

func (f *fakeRatingsStore) Delete(ctx context.Context, movieID int) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	_, existed := f.entries[movieID]
	delete(f.entries, movieID)
	return existed, nil
}

type stubCompletion struct {
	text string
	err  error
}

func (s *stubCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

type serverFixture struct {
	server  *Server
	catalog *stubCatalog
	store   *fakeRatingsStore
	comp    *stubCompletion
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	cat := &stubCatalog{}
	st := newFakeRatingsStore()
	comp := &stubCompletion{}
	logger := log.New(io.Discard, "", 0)

	reg := registry.New(st)
	engine := recommend.NewEngine(comp, cat, 2, logger)
	srv := New(config.Config{Port: "0"}, nil, reg, cat, engine, logger)

	return &serverFixture{server: srv, catalog: cat, store: st, comp: comp}
}

func (f *serverFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.server.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

func wantErrorCode(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	var payload errorResponse
	decodeBody(t, rec, &payload)
	if payload.Code != want {
		t.Fatalf("error code = %q, want %q", payload.Code, want)
	}
}
