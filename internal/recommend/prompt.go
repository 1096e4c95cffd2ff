package recommend

import (
	"fmt"
	"strings"

	"github.com/kinolog/kinolog/internal/domain"
)

// BuildPrompt renders the rated movie, the loved/disliked signals, and any
// focus text into a completion instruction that demands a bare JSON array of
// {title, year, reason} objects.
func BuildPrompt(movie domain.Movie, values domain.RatingValues, focus string) string {
	signals := ExtractSignals(values)

	var b strings.Builder
	b.WriteString("You are a movie recommendation expert. Based on the user's detailed rating of a movie, suggest 3-5 movies they would enjoy.\n\n")

	yearText := "unknown year"
	if y := movie.Year(); y != nil {
		yearText = fmt.Sprintf("%d", *y)
	}
	fmt.Fprintf(&b, "The user watched %q (%s) and rated it:\n", movie.Title, yearText)
	fmt.Fprintf(&b, "- Overall: %d/5 stars\n", values.Overall)
	writeDimension(&b, "Plot", values.Plot)
	writeDimension(&b, "Acting", values.Acting)
	writeDimension(&b, "Cinematography", values.Cinematography)
	writeDimension(&b, "Music/Score", values.Score)

	if len(signals.Loved) > 0 {
		fmt.Fprintf(&b, "\nThe user particularly loved: %s.\n", strings.Join(signals.Loved, ", "))
	}
	if len(signals.Disliked) > 0 {
		fmt.Fprintf(&b, "The user was less impressed by: %s.\n", strings.Join(signals.Disliked, ", "))
	}
	if trimmed := strings.TrimSpace(focus); trimmed != "" {
		fmt.Fprintf(&b, "The user asked for recommendations focused on: %s.\n", trimmed)
	}

	b.WriteString("\nMovie details:\n")
	genres := "Unknown"
	if names := movie.GenreNames(); len(names) > 0 {
		genres = strings.Join(names, ", ")
	}
	fmt.Fprintf(&b, "- Genres: %s\n", genres)
	overview := movie.Overview
	if overview == "" {
		overview = "No overview available"
	}
	fmt.Fprintf(&b, "- Overview: %s\n", overview)

	b.WriteString(`
Recommend 3-5 movies that:
1. Match what the user loved about this movie
2. Avoid weaknesses in areas they rated poorly
3. Are similar in genre/tone but not too obvious

In your reasoning, specifically reference which aspects (plot, acting, cinematography, score) make each recommendation a good fit.

IMPORTANT: Respond with ONLY a valid JSON array in this exact format, no other text:
[
  {
    "title": "Movie Title",
    "year": 2020,
    "reason": "2-3 sentences explaining why this movie matches their taste."
  }
]`)

	return b.String()
}

func writeDimension(b *strings.Builder, label string, score *int) {
	if score == nil {
		return
	}
	fmt.Fprintf(b, "- %s: %d/5 stars\n", label, *score)
}
