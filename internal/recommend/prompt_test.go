package recommend

import (
	"strings"
	"testing"

	"github.com/kinolog/kinolog/internal/domain"
)

func TestBuildPrompt_SignalsAndDimensions(t *testing.T) {
	movie := domain.Movie{
		ID:          27205,
		Title:       "Inception",
		ReleaseDate: "2010-07-16",
		Overview:    "A thief who steals corporate secrets.",
		Genres:      []domain.Genre{{ID: 28, Name: "Action"}},
	}
	values := domain.RatingValues{Overall: 4, Plot: intPtr(4), Acting: intPtr(1)}

	prompt := BuildPrompt(movie, values, "")

	if !strings.Contains(prompt, `"Inception" (2010)`) {
		t.Fatalf("prompt missing title/year:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Overall: 4/5") {
		t.Fatalf("prompt missing overall score")
	}
	if !strings.Contains(prompt, "particularly loved: plot/story") {
		t.Fatalf("prompt missing loved signal:\n%s", prompt)
	}
	if !strings.Contains(prompt, "less impressed by: acting") {
		t.Fatalf("prompt missing disliked signal:\n%s", prompt)
	}
	// Unrated dimensions get no score lines.
	if strings.Contains(prompt, "- Cinematography:") || strings.Contains(prompt, "- Music/Score:") {
		t.Fatalf("prompt lists unrated dimensions:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Genres: Action") {
		t.Fatalf("prompt missing genres")
	}
	if !strings.Contains(prompt, "ONLY a valid JSON array") {
		t.Fatalf("prompt missing output directive")
	}
}

func TestBuildPrompt_NoSignalSentencesWhenEmpty(t *testing.T) {
	prompt := BuildPrompt(domain.Movie{Title: "Solaris"}, domain.RatingValues{Overall: 3}, "")

	if strings.Contains(prompt, "particularly loved") {
		t.Fatalf("loved sentence present with no signals")
	}
	if strings.Contains(prompt, "less impressed") {
		t.Fatalf("disliked sentence present with no signals")
	}
	if !strings.Contains(prompt, "(unknown year)") {
		t.Fatalf("missing unknown-year fallback:\n%s", prompt)
	}
}

func TestBuildPrompt_FocusText(t *testing.T) {
	values := domain.RatingValues{Overall: 5}

	with := BuildPrompt(domain.Movie{Title: "Heat"}, values, "  gritty crime dramas  ")
	if !strings.Contains(with, "focused on: gritty crime dramas.") {
		t.Fatalf("focus text not trimmed into prompt:\n%s", with)
	}

	without := BuildPrompt(domain.Movie{Title: "Heat"}, values, "   ")
	if strings.Contains(without, "focused on") {
		t.Fatalf("blank focus text included in prompt")
	}
}
