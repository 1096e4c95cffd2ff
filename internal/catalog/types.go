package catalog

import "github.com/kinolog/kinolog/internal/domain"

// Wire payloads for the TMDB-compatible API. List endpoints carry genre ids
// only; detail payloads carry full genre objects and runtime.

type pagedResponse struct {
	Page         int            `json:"page"`
	Results      []moviePayload `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type moviePayload struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	ReleaseDate string          `json:"release_date"`
	PosterPath  *string         `json:"poster_path"`
	Overview    string          `json:"overview"`
	GenreIDs    []int           `json:"genre_ids"`
	Genres      []genrePayload  `json:"genres"`
	Runtime     *int            `json:"runtime"`
	Popularity  float64         `json:"popularity"`
	VoteAverage float64         `json:"vote_average"`
	Credits     *creditsPayload `json:"credits"`
}

type genrePayload struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreListResponse struct {
	Genres []genrePayload `json:"genres"`
}

type personSearchResponse struct {
	Page       int             `json:"page"`
	Results    []personPayload `json:"results"`
	TotalPages int             `json:"total_pages"`
}

type personPayload struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Popularity float64 `json:"popularity"`
}

type creditsPayload struct {
	Cast []castPayload `json:"cast"`
}

type castPayload struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	Order       int     `json:"order"`
	ProfilePath *string `json:"profile_path"`
}

// creditPayload is a movie entry from a person's credits list.
type personCreditsResponse struct {
	Cast []moviePayload `json:"cast"`
}

func convertMovie(p moviePayload) domain.Movie {
	movie := domain.Movie{
		ID:          p.ID,
		Title:       p.Title,
		ReleaseDate: p.ReleaseDate,
		PosterPath:  p.PosterPath,
		Overview:    p.Overview,
		Runtime:     p.Runtime,
		Popularity:  p.Popularity,
		VoteAverage: p.VoteAverage,
	}

	switch {
	case len(p.Genres) > 0:
		movie.Genres = make([]domain.Genre, 0, len(p.Genres))
		for _, g := range p.Genres {
			movie.Genres = append(movie.Genres, domain.Genre{ID: g.ID, Name: g.Name})
		}
	case len(p.GenreIDs) > 0:
		// List payloads carry ids only; names resolve via Genres().
		movie.Genres = make([]domain.Genre, 0, len(p.GenreIDs))
		for _, id := range p.GenreIDs {
			movie.Genres = append(movie.Genres, domain.Genre{ID: id})
		}
	}

	if p.Credits != nil {
		movie.Cast = make([]domain.CastMember, 0, len(p.Credits.Cast))
		for _, c := range p.Credits.Cast {
			movie.Cast = append(movie.Cast, domain.CastMember{
				ID:        c.ID,
				Name:      c.Name,
				Character: c.Character,
				Order:     c.Order,
				Profile:   c.ProfilePath,
			})
		}
	}

	return movie
}

func convertPage(p pagedResponse, requested int) domain.Page {
	results := make([]domain.Movie, 0, len(p.Results))
	for _, m := range p.Results {
		results = append(results, convertMovie(m))
	}
	page := p.Page
	if page == 0 {
		page = requested
	}
	return domain.Page{
		Results:    results,
		Page:       page,
		TotalPages: p.TotalPages,
		HasMore:    page < p.TotalPages,
	}
}
