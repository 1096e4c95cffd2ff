package domain

import (
	"strconv"
	"time"
)

// Genre is a catalog genre label.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is a single acting credit on a movie's detail payload.
type CastMember struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Character string  `json:"character,omitempty"`
	Order     int     `json:"order"`
	Profile   *string `json:"profilePath,omitempty"`
}

// Movie is an immutable snapshot fetched from the catalog. The catalog owns
// the identifier; the store keeps a denormalized copy of the fields it needs.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	PosterPath  *string `json:"posterPath,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	Genres      []Genre `json:"genres,omitempty"`
	Runtime     *int    `json:"runtime,omitempty"`
	Popularity  float64 `json:"popularity,omitempty"`
	VoteAverage float64 `json:"voteAverage,omitempty"`

	// Cast is only populated on detail fetches.
	Cast []CastMember `json:"cast,omitempty"`
}

// Year extracts the release year from the catalog date, or nil when the
// catalog has no date for the movie.
func (m Movie) Year() *int {
	if len(m.ReleaseDate) < 4 {
		return nil
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return nil
	}
	return &year
}

// GenreNames flattens genre labels for the denormalized store record.
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// StoredMovie is the denormalized movie row persisted alongside a rating.
type StoredMovie struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Year       *int      `json:"year,omitempty"`
	PosterPath *string   `json:"posterPath,omitempty"`
	Overview   string    `json:"overview,omitempty"`
	Genres     []string  `json:"genres"`
	Runtime    *int      `json:"runtime,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Page is the envelope every paginated catalog operation returns.
type Page struct {
	Results    []Movie `json:"results"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	HasMore    bool    `json:"hasMore"`
}
