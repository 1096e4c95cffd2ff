package httpserver

import (
	"net/http"

	"github.com/kinolog/kinolog/internal/domain"
)

type recommendationsRequest struct {
	Movie     *domain.Movie        `json:"movie"`
	Ratings   *domain.RatingValues `json:"ratings"`
	FocusText string               `json:"focusText"`
}

type recommendationsResponse struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// recommendationsError is the flat error envelope this endpoint returns:
// {"error": "..."} with 400 for missing input and 500 for completion or
// parsing failures.
type recommendationsError struct {
	Error string `json:"error"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondJSON(w, http.StatusBadRequest, recommendationsError{Error: "movie and ratings are required"})
		return
	}
	if req.Movie == nil || req.Ratings == nil {
		s.respondJSON(w, http.StatusBadRequest, recommendationsError{Error: "movie and ratings are required"})
		return
	}
	if !req.Ratings.Valid() {
		s.respondJSON(w, http.StatusBadRequest, recommendationsError{Error: "overall and dimension scores must be integers in [1,5]"})
		return
	}

	recs, err := s.engine.Recommend(r.Context(), *req.Movie, *req.Ratings, req.FocusText)
	if err != nil {
		s.logger.Printf("recommendations error: %v", err)
		s.respondJSON(w, http.StatusInternalServerError, recommendationsError{Error: "failed to get recommendations"})
		return
	}

	s.respondJSON(w, http.StatusOK, recommendationsResponse{Recommendations: recs})
}
