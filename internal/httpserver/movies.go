package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kinolog/kinolog/internal/catalog"
)

// handleSearchMovies searches the catalog by title, or by actor name when
// by=actor. A blank query falls back to the popular listing.
func (s *Server) handleSearchMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := strings.TrimSpace(query.Get("q"))
	page, err := parsePage(query)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	year, err := parseYear(query)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	if q == "" {
		result, err := s.catalog.Popular(r.Context(), page)
		if err != nil {
			s.logger.Printf("popular fallback error: %v", err)
			s.respondError(w, http.StatusBadGateway, "CATALOG_ERROR", "Failed to search movies")
			return
		}
		s.respondJSON(w, http.StatusOK, result)
		return
	}

	search := s.catalog.SearchByTitle
	if query.Get("by") == "actor" {
		search = s.catalog.SearchByActor
	}

	result, err := search(r.Context(), q, year, page)
	if err != nil {
		s.logger.Printf("search movies error: %v", err)
		s.respondError(w, http.StatusBadGateway, "CATALOG_ERROR", "Failed to search movies")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBrowseMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := parsePage(query)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	filters, err := buildDiscoverFilters(query)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	result, err := s.catalog.Discover(r.Context(), filters, page)
	if err != nil {
		s.logger.Printf("browse movies error: %v", err)
		s.respondError(w, http.StatusBadGateway, "CATALOG_ERROR", "Failed to browse movies")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handlePopularMovies(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	result, err := s.catalog.Popular(r.Context(), page)
	if err != nil {
		s.logger.Printf("popular movies error: %v", err)
		s.respondError(w, http.StatusBadGateway, "CATALOG_ERROR", "Failed to fetch popular movies")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid movie id")
		return
	}

	movie, err := s.catalog.Details(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("movie details error: %v", err)
		s.respondError(w, http.StatusBadGateway, "CATALOG_ERROR", "Failed to fetch movie details")
		return
	}
	s.respondJSON(w, http.StatusOK, movie)
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.catalog.Genres(r.Context())
	if err != nil {
		s.logger.Printf("genres error: %v", err)
		s.respondError(w, http.StatusBadGateway, "CATALOG_ERROR", "Failed to fetch genres")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"genres": genres})
}

func buildDiscoverFilters(query url.Values) (catalog.DiscoverFilters, error) {
	var filters catalog.DiscoverFilters

	if val := strings.TrimSpace(query.Get("genre")); val != "" {
		genreID, err := strconv.Atoi(val)
		if err != nil || genreID <= 0 {
			return filters, fmt.Errorf("invalid genre value")
		}
		filters.GenreID = genreID
	}
	if val := strings.TrimSpace(query.Get("decade")); val != "" {
		decade, err := strconv.Atoi(val)
		if err != nil || decade < 1870 || decade%10 != 0 {
			return filters, fmt.Errorf("invalid decade value")
		}
		filters.Decade = decade
	}
	if val := strings.TrimSpace(query.Get("minRating")); val != "" {
		minRating, err := strconv.ParseFloat(val, 64)
		if err != nil || minRating < 0 || minRating > 10 {
			return filters, fmt.Errorf("invalid minRating value")
		}
		filters.MinRating = minRating
	}
	if val := strings.TrimSpace(query.Get("sortBy")); val != "" {
		filters.SortBy = val
	}
	return filters, nil
}

func parsePage(query url.Values) (int, error) {
	val := strings.TrimSpace(query.Get("page"))
	if val == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(val)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid page value")
	}
	return page, nil
}

func parseYear(query url.Values) (int, error) {
	val := strings.TrimSpace(query.Get("year"))
	if val == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(val)
	if err != nil || year < 1870 || year > 2100 {
		return 0, fmt.Errorf("invalid year value")
	}
	return year, nil
}
