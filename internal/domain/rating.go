package domain

import "time"

// RatingValues carries the user's scores for one movie. Overall is mandatory;
// the four dimension scores are present-or-absent, never zero.
type RatingValues struct {
	Overall        int  `json:"overall"`
	Plot           *int `json:"plot,omitempty"`
	Acting         *int `json:"acting,omitempty"`
	Cinematography *int `json:"cinematography,omitempty"`
	Score          *int `json:"score,omitempty"`
}

// Valid reports whether overall and every present dimension fall in [1,5].
func (v RatingValues) Valid() bool {
	if v.Overall < 1 || v.Overall > 5 {
		return false
	}
	for _, dim := range []*int{v.Plot, v.Acting, v.Cinematography, v.Score} {
		if dim != nil && (*dim < 1 || *dim > 5) {
			return false
		}
	}
	return true
}

// Rating is a stored rating row, keyed by the movie it rates.
type Rating struct {
	MovieID int `json:"movieId"`
	RatingValues
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WatchedEntry joins a rating with the movie snapshot it was saved against.
// The watched list is built from these, newest-created first.
type WatchedEntry struct {
	Rating
	Movie StoredMovie `json:"movie"`
}
