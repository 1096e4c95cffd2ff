package httpserver

import (
	"errors"
	"net/http"
	"testing"

	"github.com/kinolog/kinolog/internal/domain"
)

const inceptionRatingBody = `{
	"movie": {"id": 27205, "title": "Inception", "releaseDate": "2010-07-16"},
	"ratings": {"overall": 4, "plot": 5}
}`

func TestSaveRating_RoundTrip(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodPut, "/ratings/27205", inceptionRatingBody)
	wantStatus(t, rec, http.StatusOK)

	var entry domain.WatchedEntry
	decodeBody(t, rec, &entry)
	if entry.MovieID != 27205 || entry.Overall != 4 {
		t.Fatalf("entry = %+v", entry)
	}
	if entry.Plot == nil || *entry.Plot != 5 {
		t.Fatalf("entry.Plot = %v", entry.Plot)
	}
	if entry.Acting != nil {
		t.Fatalf("unrated dimension came back as %v", *entry.Acting)
	}

	rec = fx.do(t, http.MethodGet, "/ratings/27205", "")
	wantStatus(t, rec, http.StatusOK)
}

func TestSaveRating_Validation(t *testing.T) {
	fx := newServerFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing movie", `{"ratings": {"overall": 4}}`},
		{"missing ratings", `{"movie": {"id": 27205, "title": "Inception"}}`},
		{"id mismatch", `{"movie": {"id": 550, "title": "Fight Club"}, "ratings": {"overall": 4}}`},
		{"blank title", `{"movie": {"id": 27205, "title": ""}, "ratings": {"overall": 4}}`},
		{"overall out of range", `{"movie": {"id": 27205, "title": "Inception"}, "ratings": {"overall": 6}}`},
		{"dimension out of range", `{"movie": {"id": 27205, "title": "Inception"}, "ratings": {"overall": 4, "acting": 9}}`},
		{"wrong field type", `{"movie": {"id": "27205", "title": "Inception"}, "ratings": {"overall": 4}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fx.do(t, http.MethodPut, "/ratings/27205", tt.body)
			wantStatus(t, rec, http.StatusUnprocessableEntity)
			wantErrorCode(t, rec, "VALIDATION_ERROR")
		})
	}
}

func TestSaveRating_EmptyBody(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodPut, "/ratings/27205", "")
	wantStatus(t, rec, http.StatusUnprocessableEntity)
	wantErrorCode(t, rec, "VALIDATION_ERROR")
}

func TestSaveRating_InvalidPathID(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodPut, "/ratings/abc", inceptionRatingBody)
	wantStatus(t, rec, http.StatusBadRequest)
	wantErrorCode(t, rec, "BAD_REQUEST")
}

func TestSaveRating_StoreFailure(t *testing.T) {
	fx := newServerFixture(t)
	fx.store.saveErr = errors.New("connection reset")

	rec := fx.do(t, http.MethodPut, "/ratings/27205", inceptionRatingBody)
	wantStatus(t, rec, http.StatusInternalServerError)
	wantErrorCode(t, rec, "STORE_ERROR")
}

func TestGetRating_NotFound(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodGet, "/ratings/42", "")
	wantStatus(t, rec, http.StatusNotFound)
	wantErrorCode(t, rec, "NOT_FOUND")
}

func TestListRatings(t *testing.T) {
	fx := newServerFixture(t)

	for _, body := range []string{
		inceptionRatingBody,
		`{"movie": {"id": 77, "title": "Memento"}, "ratings": {"overall": 5}}`,
	} {
		id := "27205"
		if body != inceptionRatingBody {
			id = "77"
		}
		rec := fx.do(t, http.MethodPut, "/ratings/"+id, body)
		wantStatus(t, rec, http.StatusOK)
	}

	rec := fx.do(t, http.MethodGet, "/ratings/", "")
	wantStatus(t, rec, http.StatusOK)

	var payload struct {
		Ratings []domain.WatchedEntry `json:"ratings"`
	}
	decodeBody(t, rec, &payload)
	if len(payload.Ratings) != 2 {
		t.Fatalf("len = %d, want 2", len(payload.Ratings))
	}
	// Newest rating first.
	if payload.Ratings[0].MovieID != 77 || payload.Ratings[1].MovieID != 27205 {
		t.Fatalf("order = %d, %d", payload.Ratings[0].MovieID, payload.Ratings[1].MovieID)
	}
}

func TestDeleteRating_Idempotent(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodPut, "/ratings/27205", inceptionRatingBody)
	wantStatus(t, rec, http.StatusOK)

	rec = fx.do(t, http.MethodDelete, "/ratings/27205", "")
	wantStatus(t, rec, http.StatusNoContent)

	rec = fx.do(t, http.MethodGet, "/ratings/27205", "")
	wantStatus(t, rec, http.StatusNotFound)

	// Deleting a rating that no longer exists still succeeds.
	rec = fx.do(t, http.MethodDelete, "/ratings/27205", "")
	wantStatus(t, rec, http.StatusNoContent)
}

func TestDeleteRating_StoreFailure(t *testing.T) {
	fx := newServerFixture(t)

	rec := fx.do(t, http.MethodPut, "/ratings/27205", inceptionRatingBody)
	wantStatus(t, rec, http.StatusOK)

	fx.store.deleteErr = errors.New("connection reset")
	rec = fx.do(t, http.MethodDelete, "/ratings/27205", "")
	wantStatus(t, rec, http.StatusInternalServerError)
	wantErrorCode(t, rec, "STORE_ERROR")
}
