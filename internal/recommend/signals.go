package recommend

import "github.com/kinolog/kinolog/internal/domain"

// Signals lists the rating dimensions the user loved (scored 4-5) and
// disliked (scored 1-2). A score of 3 or an absent dimension contributes
// nothing.
type Signals struct {
	Loved    []string
	Disliked []string
}

type dimension struct {
	score        *int
	lovedLabel   string
	dislikeLabel string
}

// ExtractSignals classifies each present dimension score. Absent dimensions
// are nil pointers, and a zero is treated as absent too, so a missing or
// zeroed value can never be read as a low rating.
func ExtractSignals(values domain.RatingValues) Signals {
	dims := []dimension{
		{values.Plot, "plot/story", "plot/story"},
		{values.Acting, "acting performances", "acting"},
		{values.Cinematography, "cinematography/visuals", "cinematography"},
		{values.Score, "music/score", "music/score"},
	}

	var signals Signals
	for _, d := range dims {
		if d.score == nil || *d.score == 0 {
			continue
		}
		switch {
		case *d.score >= 4:
			signals.Loved = append(signals.Loved, d.lovedLabel)
		case *d.score <= 2:
			signals.Disliked = append(signals.Disliked, d.dislikeLabel)
		}
	}
	return signals
}
