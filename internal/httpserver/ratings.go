package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kinolog/kinolog/internal/domain"
)

type saveRatingRequest struct {
	Movie   *domain.Movie        `json:"movie"`
	Ratings *domain.RatingValues `json:"ratings"`
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"ratings": s.registry.All(),
	})
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	movieID, ok := s.movieIDParam(w, r)
	if !ok {
		return
	}

	entry, found := s.registry.Get(movieID)
	if !found {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}
	s.respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleSaveRating(w http.ResponseWriter, r *http.Request) {
	movieID, ok := s.movieIDParam(w, r)
	if !ok {
		return
	}

	var req saveRatingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Movie == nil || req.Ratings == nil {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "movie and ratings are required")
		return
	}
	if req.Movie.ID != movieID {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "movie id does not match path")
		return
	}
	if req.Movie.Title == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "movie title is required")
		return
	}
	if !req.Ratings.Valid() {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "overall and dimension scores must be integers in [1,5]")
		return
	}

	entry, err := s.registry.Save(r.Context(), *req.Movie, *req.Ratings)
	if err != nil {
		s.logger.Printf("save rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to save rating")
		return
	}
	s.respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	movieID, ok := s.movieIDParam(w, r)
	if !ok {
		return
	}

	if err := s.registry.Delete(r.Context(), movieID); err != nil {
		s.logger.Printf("delete rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to delete rating")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) movieIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "movieId"))
	if err != nil || id <= 0 {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid movie id")
		return 0, false
	}
	return id, true
}
