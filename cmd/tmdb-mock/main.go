// tmdb-mock serves a small TMDB-compatible API from a JSON fixture so the
// service can run locally without catalog credentials.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
)

const pageSize = 20

type fixture struct {
	Movies []movieEntry  `json:"movies"`
	Genres []genreEntry  `json:"genres"`
	People []personEntry `json:"people"`
}

type movieEntry struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  *string `json:"poster_path"`
	Overview    string  `json:"overview"`
	GenreIDs    []int   `json:"genre_ids"`
	Runtime     *int    `json:"runtime"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
}

type genreEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type personEntry struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Popularity float64 `json:"popularity"`
	CreditIDs  []int   `json:"credit_ids"`
}

type server struct {
	data fixture
}

func main() {
	var (
		port = flag.String("port", "9099", "port to listen on")
		data = flag.String("data", "mock-tmdb.json", "path to fixture file")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read fixture: %v", err)
	}

	var payload fixture
	if err := json.Unmarshal(file, &payload); err != nil {
		log.Fatalf("parse fixture: %v", err)
	}

	s := &server{data: payload}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/movie", s.searchMovies)
	mux.HandleFunc("GET /search/person", s.searchPeople)
	mux.HandleFunc("GET /person/{id}/movie_credits", s.personCredits)
	mux.HandleFunc("GET /discover/movie", s.discover)
	mux.HandleFunc("GET /movie/popular", s.popular)
	mux.HandleFunc("GET /genre/movie/list", s.genres)
	mux.HandleFunc("GET /movie/{id}", s.movieDetails)

	addr := ":" + *port
	log.Printf("mock catalog listening on %s (%d movies, %d people)", addr, len(payload.Movies), len(payload.People))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func (s *server) searchMovies(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("query"))
	year := r.URL.Query().Get("year")

	matches := make([]movieEntry, 0)
	for _, m := range s.data.Movies {
		if query != "" && !strings.Contains(strings.ToLower(m.Title), query) {
			continue
		}
		if year != "" && !strings.HasPrefix(m.ReleaseDate, year) {
			continue
		}
		matches = append(matches, m)
	}
	writePaged(w, matches, pageParam(r))
}

func (s *server) searchPeople(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("query"))

	results := make([]personEntry, 0)
	for _, p := range s.data.People {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		results = append(results, p)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Popularity > results[j].Popularity })

	writeJSON(w, map[string]interface{}{
		"page":        1,
		"results":     results,
		"total_pages": 1,
	})
}

func (s *server) personCredits(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	for _, p := range s.data.People {
		if p.ID != id {
			continue
		}
		cast := make([]movieEntry, 0, len(p.CreditIDs))
		for _, creditID := range p.CreditIDs {
			if m, ok := s.movieByID(creditID); ok {
				cast = append(cast, m)
			}
		}
		writeJSON(w, map[string]interface{}{"id": p.ID, "cast": cast})
		return
	}
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

func (s *server) discover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	genreID, _ := strconv.Atoi(q.Get("with_genres"))
	minRating, _ := strconv.ParseFloat(q.Get("vote_average.gte"), 64)
	dateGTE := q.Get("primary_release_date.gte")
	dateLTE := q.Get("primary_release_date.lte")

	matches := make([]movieEntry, 0)
	for _, m := range s.data.Movies {
		if genreID > 0 && !containsInt(m.GenreIDs, genreID) {
			continue
		}
		if minRating > 0 && m.VoteAverage < minRating {
			continue
		}
		if dateGTE != "" && m.ReleaseDate < dateGTE {
			continue
		}
		if dateLTE != "" && m.ReleaseDate > dateLTE {
			continue
		}
		matches = append(matches, m)
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Popularity > matches[j].Popularity })
	writePaged(w, matches, pageParam(r))
}

func (s *server) popular(w http.ResponseWriter, r *http.Request) {
	movies := make([]movieEntry, len(s.data.Movies))
	copy(movies, s.data.Movies)
	sort.SliceStable(movies, func(i, j int) bool { return movies[i].Popularity > movies[j].Popularity })
	writePaged(w, movies, pageParam(r))
}

func (s *server) genres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{"genres": s.data.Genres})
}

func (s *server) movieDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	m, ok := s.movieByID(id)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	genres := make([]genreEntry, 0, len(m.GenreIDs))
	for _, gid := range m.GenreIDs {
		for _, g := range s.data.Genres {
			if g.ID == gid {
				genres = append(genres, g)
			}
		}
	}

	cast := make([]map[string]interface{}, 0)
	for _, p := range s.data.People {
		if containsInt(p.CreditIDs, m.ID) {
			cast = append(cast, map[string]interface{}{
				"id":    p.ID,
				"name":  p.Name,
				"order": len(cast),
			})
		}
	}

	writeJSON(w, map[string]interface{}{
		"id":           m.ID,
		"title":        m.Title,
		"release_date": m.ReleaseDate,
		"poster_path":  m.PosterPath,
		"overview":     m.Overview,
		"genres":       genres,
		"runtime":      m.Runtime,
		"popularity":   m.Popularity,
		"vote_average": m.VoteAverage,
		"credits":      map[string]interface{}{"cast": cast},
	})
}

func (s *server) movieByID(id int) (movieEntry, bool) {
	for _, m := range s.data.Movies {
		if m.ID == id {
			return m, true
		}
	}
	return movieEntry{}, false
}

func containsInt(slice []int, val int) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func writePaged(w http.ResponseWriter, movies []movieEntry, page int) {
	totalPages := (len(movies) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > len(movies) {
		start = len(movies)
	}
	end := start + pageSize
	if end > len(movies) {
		end = len(movies)
	}

	writeJSON(w, map[string]interface{}{
		"page":          page,
		"results":       movies[start:end],
		"total_pages":   totalPages,
		"total_results": len(movies),
	})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
