package detect

import "math/rand"

// Result is a one-shot detection verdict for a single caption.
// It has no cadence or cooldown state; every evaluation is independent.
type Result struct {
	// Caption is the caption text the verdict was computed from.
	Caption string `json:"caption"`

	// IsShop is true when the caption matched a shop keyword.
	IsShop bool `json:"is_shop"`

	// Score is a confidence-like value: 70-99 on detection, 0-40 otherwise.
	Score int `json:"score"`

	// Pun is a celebratory phrase, set only on detection.
	Pun string `json:"pun,omitempty"`
}

// puns are cycled randomly into positive detection responses.
var puns = []string{
	"Shelf-aware decision!",
	"Receipt-ing our victory!",
	"This one's a total checkout.",
	"Aisle be back with more detections.",
	"We're bagging this as a shop!",
}

// Evaluate computes a one-shot detection verdict for a caption.
// An empty caption never detects, regardless of keywords.
func Evaluate(caption string, keywords []string) Result {
	r := Result{Caption: caption}
	if caption != "" && Matches(caption, keywords) {
		r.IsShop = true
		r.Score = 70 + rand.Intn(30)
		r.Pun = puns[rand.Intn(len(puns))]
	} else {
		r.Score = rand.Intn(41)
	}
	return r
}
