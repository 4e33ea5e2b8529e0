package models

// SubmitAnswerResult is the outcome for a single exercise. Answer always holds
// the expected answer; hiding it on success is up to the presentation layer.
type SubmitAnswerResult struct {
	Correct  bool    `json:"correct"`
	Answer   string  `json:"answer"`
	Feedback *string `json:"feedback,omitempty"`
}

type SubmitAnswersResponse struct {
	Results []SubmitAnswerResult `json:"results"`
	Score   int                  `json:"score"` // percentage, rounded up
}

// CorrectCount returns the number of correct results.
func (r *SubmitAnswersResponse) CorrectCount() int {
	count := 0
	for _, result := range r.Results {
		if result.Correct {
			count++
		}
	}
	return count
}
