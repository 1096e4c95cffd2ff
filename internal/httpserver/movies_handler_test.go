package httpserver

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/kinolog/kinolog/internal/catalog"
	"github.com/kinolog/kinolog/internal/domain"
)

func moviePage(movies ...domain.Movie) domain.Page {
	return domain.Page{Results: movies, Page: 1, TotalPages: 1}
}

func TestSearchMovies_ByTitle(t *testing.T) {
	fx := newServerFixture(t)

	var gotQuery string
	var gotYear, gotPage int
	fx.catalog.searchByTitle = func(ctx context.Context, query string, year, page int) (domain.Page, error) {
		gotQuery, gotYear, gotPage = query, year, page
		return moviePage(domain.Movie{ID: 27205, Title: "Inception"}), nil
	}

	rec := fx.do(t, http.MethodGet, "/movies/search?q=inception&year=2010&page=2", "")
	wantStatus(t, rec, http.StatusOK)

	if gotQuery != "inception" || gotYear != 2010 || gotPage != 2 {
		t.Fatalf("catalog called with (%q, %d, %d)", gotQuery, gotYear, gotPage)
	}

	var page domain.Page
	decodeBody(t, rec, &page)
	if len(page.Results) != 1 || page.Results[0].Title != "Inception" {
		t.Fatalf("results = %+v", page.Results)
	}
}

func TestSearchMovies_ByActor(t *testing.T) {
	fx := newServerFixture(t)

	called := false
	fx.catalog.searchByActor = func(ctx context.Context, query string, year, page int) (domain.Page, error) {
		called = true
		if query != "DiCaprio" {
			t.Errorf("query = %q", query)
		}
		return moviePage(), nil
	}

	rec := fx.do(t, http.MethodGet, "/movies/search?q=DiCaprio&by=actor", "")
	wantStatus(t, rec, http.StatusOK)
	if !called {
		t.Fatal("actor search not routed to SearchByActor")
	}
}

func TestSearchMovies_BlankQueryFallsBackToPopular(t *testing.T) {
	fx := newServerFixture(t)

	fx.catalog.popular = func(ctx context.Context, page int) (domain.Page, error) {
		return moviePage(domain.Movie{ID: 1, Title: "Popular Pick"}), nil
	}

	rec := fx.do(t, http.MethodGet, "/movies/search?q=%20%20", "")
	wantStatus(t, rec, http.StatusOK)

	var page domain.Page
	decodeBody(t, rec, &page)
	if len(page.Results) != 1 || page.Results[0].Title != "Popular Pick" {
		t.Fatalf("results = %+v", page.Results)
	}
}

func TestSearchMovies_InvalidParams(t *testing.T) {
	fx := newServerFixture(t)

	for _, target := range []string{
		"/movies/search?q=x&page=0",
		"/movies/search?q=x&page=abc",
		"/movies/search?q=x&year=1700",
	} {
		rec := fx.do(t, http.MethodGet, target, "")
		wantStatus(t, rec, http.StatusBadRequest)
		wantErrorCode(t, rec, "BAD_REQUEST")
	}
}

func TestSearchMovies_CatalogFailure(t *testing.T) {
	fx := newServerFixture(t)

	fx.catalog.searchByTitle = func(ctx context.Context, query string, year, page int) (domain.Page, error) {
		return domain.Page{}, errors.New("upstream timeout")
	}

	rec := fx.do(t, http.MethodGet, "/movies/search?q=inception", "")
	wantStatus(t, rec, http.StatusBadGateway)
	wantErrorCode(t, rec, "CATALOG_ERROR")
}

func TestBrowseMovies_FiltersForwarded(t *testing.T) {
	fx := newServerFixture(t)

	var gotFilters catalog.DiscoverFilters
	fx.catalog.discover = func(ctx context.Context, filters catalog.DiscoverFilters, page int) (domain.Page, error) {
		gotFilters = filters
		return moviePage(), nil
	}

	rec := fx.do(t, http.MethodGet, "/movies/browse?genre=878&decade=1990&minRating=7.5&sortBy=vote_average.desc", "")
	wantStatus(t, rec, http.StatusOK)

	want := catalog.DiscoverFilters{GenreID: 878, Decade: 1990, MinRating: 7.5, SortBy: "vote_average.desc"}
	if gotFilters != want {
		t.Fatalf("filters = %+v, want %+v", gotFilters, want)
	}
}

func TestBrowseMovies_InvalidDecade(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodGet, "/movies/browse?decade=1995", "")
	wantStatus(t, rec, http.StatusBadRequest)
	wantErrorCode(t, rec, "BAD_REQUEST")
}

func TestMovieDetails_Found(t *testing.T) {
	fx := newServerFixture(t)

	fx.catalog.details = func(ctx context.Context, movieID int) (domain.Movie, error) {
		if movieID != 27205 {
			t.Errorf("movieID = %d", movieID)
		}
		return domain.Movie{ID: 27205, Title: "Inception"}, nil
	}

	rec := fx.do(t, http.MethodGet, "/movies/27205", "")
	wantStatus(t, rec, http.StatusOK)

	var movie domain.Movie
	decodeBody(t, rec, &movie)
	if movie.ID != 27205 {
		t.Fatalf("movie = %+v", movie)
	}
}

func TestMovieDetails_NotFound(t *testing.T) {
	fx := newServerFixture(t)

	fx.catalog.details = func(ctx context.Context, movieID int) (domain.Movie, error) {
		return domain.Movie{}, catalog.ErrNotFound
	}

	rec := fx.do(t, http.MethodGet, "/movies/99999999", "")
	wantStatus(t, rec, http.StatusNotFound)
	wantErrorCode(t, rec, "NOT_FOUND")
}

func TestMovieDetails_InvalidID(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodGet, "/movies/-3", "")
	wantStatus(t, rec, http.StatusBadRequest)
	wantErrorCode(t, rec, "BAD_REQUEST")
}

func TestGenres(t *testing.T) {
	fx := newServerFixture(t)

	fx.catalog.genres = func(ctx context.Context) ([]domain.Genre, error) {
		return []domain.Genre{{ID: 878, Name: "Science Fiction"}}, nil
	}

	rec := fx.do(t, http.MethodGet, "/genres", "")
	wantStatus(t, rec, http.StatusOK)

	var payload struct {
		Genres []domain.Genre `json:"genres"`
	}
	decodeBody(t, rec, &payload)
	if len(payload.Genres) != 1 || payload.Genres[0].Name != "Science Fiction" {
		t.Fatalf("genres = %+v", payload.Genres)
	}
}
