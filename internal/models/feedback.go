package models

// Feedback is a learner's free-text remark about a page of the application.
type Feedback struct {
	Text     string `json:"text"`
	PagePath string `json:"pagePath"`
}
