package domain

// Recommendation is an ephemeral suggestion produced by the completion
// service. Title and year are reported as-is; Match is the first catalog hit
// for that title/year, or nil when the lookup found nothing.
type Recommendation struct {
	Title  string `json:"title"`
	Year   int    `json:"year"`
	Reason string `json:"reason"`
	Match  *Movie `json:"match,omitempty"`
}
