package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/kinolog/kinolog/internal/domain"
)

// ErrNotFound is returned when the catalog has no record for the request.
var ErrNotFound = errors.New("catalog: not found")

// pageSize is the fixed result count per page served by the upstream.
const pageSize = 20

// DiscoverFilters narrows a catalog browse. Zero values mean "no filter".
type DiscoverFilters struct {
	GenreID   int
	Decade    int // start year of a decade, e.g. 1990
	MinRating float64
	SortBy    string // defaults to popularity.desc
}

// Client defines the contract for querying the movie catalog. Every paginated
// operation returns the four-field page envelope.
type Client interface {
	SearchByTitle(ctx context.Context, query string, year, page int) (domain.Page, error)
	SearchByActor(ctx context.Context, query string, year, page int) (domain.Page, error)
	Discover(ctx context.Context, filters DiscoverFilters, page int) (domain.Page, error)
	Popular(ctx context.Context, page int) (domain.Page, error)
	Genres(ctx context.Context) ([]domain.Genre, error)
	Details(ctx context.Context, movieID int) (domain.Movie, error)
}

// HTTPClient implements Client over a TMDB-compatible HTTP API.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewHTTPClient constructs a catalog client. Outbound calls are throttled to
// rps requests per second to stay inside the provider's limits.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, rps int, logger *log.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		logger:  logger,
	}, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	rel := &url.URL{Path: path, RawQuery: params.Encode()}
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode catalog response: %w", err)
		}
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		c.logger.Printf("catalog: unexpected status %d for %s", resp.StatusCode, path)
		return fmt.Errorf("catalog: upstream returned %d", resp.StatusCode)
	}
}

// SearchByTitle queries the catalog's movie search by text, optionally
// constrained to a release year.
func (c *HTTPClient) SearchByTitle(ctx context.Context, query string, year, page int) (domain.Page, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(normalizePage(page)))
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var payload pagedResponse
	if err := c.get(ctx, "/search/movie", params, &payload); err != nil {
		return domain.Page{}, err
	}
	return convertPage(payload, normalizePage(page)), nil
}

// SearchByActor resolves a person by name and pages through their acting
// credits, most popular first. An unknown name yields an empty page, not an
// error.
func (c *HTTPClient) SearchByActor(ctx context.Context, query string, year, page int) (domain.Page, error) {
	page = normalizePage(page)

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var people personSearchResponse
	if err := c.get(ctx, "/search/person", params, &people); err != nil {
		return domain.Page{}, err
	}
	if len(people.Results) == 0 {
		return domain.Page{Results: []domain.Movie{}, Page: page}, nil
	}

	var credits personCreditsResponse
	path := fmt.Sprintf("/person/%d/movie_credits", people.Results[0].ID)
	if err := c.get(ctx, path, nil, &credits); err != nil {
		return domain.Page{}, err
	}

	movies := make([]domain.Movie, 0, len(credits.Cast))
	for _, m := range credits.Cast {
		movie := convertMovie(m)
		if year > 0 {
			if y := movie.Year(); y == nil || *y != year {
				continue
			}
		}
		movies = append(movies, movie)
	}
	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].Popularity > movies[j].Popularity
	})

	return slicePage(movies, page), nil
}

// Discover browses the catalog with server-side filters.
func (c *HTTPClient) Discover(ctx context.Context, filters DiscoverFilters, page int) (domain.Page, error) {
	params := url.Values{}
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(normalizePage(page)))

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	params.Set("sort_by", sortBy)

	if filters.GenreID > 0 {
		params.Set("with_genres", strconv.Itoa(filters.GenreID))
	}
	if filters.Decade > 0 {
		params.Set("primary_release_date.gte", fmt.Sprintf("%d-01-01", filters.Decade))
		params.Set("primary_release_date.lte", fmt.Sprintf("%d-12-31", filters.Decade+9))
	}
	if filters.MinRating > 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(filters.MinRating, 'f', -1, 64))
		// Require a vote floor so obscure films with a handful of votes
		// don't dominate high-rating browses.
		params.Set("vote_count.gte", "100")
	}

	var payload pagedResponse
	if err := c.get(ctx, "/discover/movie", params, &payload); err != nil {
		return domain.Page{}, err
	}
	return convertPage(payload, normalizePage(page)), nil
}

// Popular lists the catalog's popular movies.
func (c *HTTPClient) Popular(ctx context.Context, page int) (domain.Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(normalizePage(page)))

	var payload pagedResponse
	if err := c.get(ctx, "/movie/popular", params, &payload); err != nil {
		return domain.Page{}, err
	}
	return convertPage(payload, normalizePage(page)), nil
}

// Genres returns the catalog's genre labels.
func (c *HTTPClient) Genres(ctx context.Context) ([]domain.Genre, error) {
	var payload genreListResponse
	if err := c.get(ctx, "/genre/movie/list", nil, &payload); err != nil {
		return nil, err
	}
	genres := make([]domain.Genre, 0, len(payload.Genres))
	for _, g := range payload.Genres {
		genres = append(genres, domain.Genre{ID: g.ID, Name: g.Name})
	}
	return genres, nil
}

// Details fetches the full movie record, cast included.
func (c *HTTPClient) Details(ctx context.Context, movieID int) (domain.Movie, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var payload moviePayload
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), params, &payload); err != nil {
		return domain.Movie{}, err
	}
	return convertMovie(payload), nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// slicePage paginates a locally assembled result list with the upstream's
// page size, keeping the envelope semantics identical to server-side pages.
func slicePage(movies []domain.Movie, page int) domain.Page {
	totalPages := (len(movies) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > len(movies) {
		start = len(movies)
	}
	end := start + pageSize
	if end > len(movies) {
		end = len(movies)
	}

	return domain.Page{
		Results:    movies[start:end],
		Page:       page,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}
