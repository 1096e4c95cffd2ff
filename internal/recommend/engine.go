// Package recommend turns a rated movie into catalog-enriched movie
// suggestions via the completion service.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/kinolog/kinolog/internal/catalog"
	"github.com/kinolog/kinolog/internal/completion"
	"github.com/kinolog/kinolog/internal/domain"
)

// ErrRequestFailed indicates the completion call could not be made or the
// upstream rejected it.
var ErrRequestFailed = errors.New("recommend: request failed")

// ErrUnparseable indicates the completion output did not match the demanded
// JSON shape. The whole request fails; there is no partial recovery.
var ErrUnparseable = errors.New("recommend: unparseable response")

// Engine orchestrates prompt construction, the completion call, strict
// parsing, and catalog enrichment.
type Engine struct {
	completion  completion.Client
	catalog     catalog.Client
	enrichLimit int
	logger      *log.Logger
}

// NewEngine constructs an Engine. enrichLimit caps concurrent catalog lookups
// during enrichment.
func NewEngine(completionClient completion.Client, catalogClient catalog.Client, enrichLimit int, logger *log.Logger) *Engine {
	if enrichLimit < 1 {
		enrichLimit = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		completion:  completionClient,
		catalog:     catalogClient,
		enrichLimit: enrichLimit,
		logger:      logger,
	}
}

// Recommend produces suggestions for a rated movie, optionally narrowed by
// free-text focus. The completion's ordering is preserved. A failed or
// unparseable completion aborts the whole request; enrichment failures are
// per-item and leave the item without a match.
func (e *Engine) Recommend(ctx context.Context, movie domain.Movie, values domain.RatingValues, focus string) ([]domain.Recommendation, error) {
	prompt := BuildPrompt(movie, values, focus)

	text, err := e.completion.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	recs, err := parseRecommendations(text)
	if err != nil {
		return nil, err
	}

	e.enrich(ctx, recs)
	return recs, nil
}

type recommendationPayload struct {
	Title  string `json:"title"`
	Year   int    `json:"year"`
	Reason string `json:"reason"`
}

// parseRecommendations decodes the completion text as exactly one JSON array
// of {title, year, reason} objects. Extra fields, trailing prose, or missing
// required fields all reject the payload.
func parseRecommendations(text string) ([]domain.Recommendation, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(text)))
	dec.DisallowUnknownFields()

	var items []recommendationPayload
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after array", ErrUnparseable)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty recommendation list", ErrUnparseable)
	}

	recs := make([]domain.Recommendation, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Reason) == "" {
			return nil, fmt.Errorf("%w: recommendation missing title or reason", ErrUnparseable)
		}
		recs = append(recs, domain.Recommendation{
			Title:  item.Title,
			Year:   item.Year,
			Reason: item.Reason,
		})
	}
	return recs, nil
}

// enrich attaches the first catalog hit for each recommendation's title and
// year. Lookups run concurrently up to enrichLimit; one item's failure never
// cancels its siblings, and results land at their original index.
func (e *Engine) enrich(ctx context.Context, recs []domain.Recommendation) {
	var g errgroup.Group
	g.SetLimit(e.enrichLimit)

	for i := range recs {
		i := i
		g.Go(func() error {
			page, err := e.catalog.SearchByTitle(ctx, recs[i].Title, recs[i].Year, 1)
			if err != nil {
				e.logger.Printf("recommend: enrich lookup %q failed: %v", recs[i].Title, err)
				return nil
			}
			if len(page.Results) > 0 {
				match := page.Results[0]
				recs[i].Match = &match
			}
			return nil
		})
	}
	_ = g.Wait()
}
