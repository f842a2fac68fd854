package models

import "time"

// SessionState is the stored form of one questionnaire session.
type SessionState struct {
	SessionID        string           `json:"session_id"`
	QuestionnaireID  string           `json:"questionnaire_id"`
	Questionnaire    FormDefinition   `json:"questionnaire"`
	Response         ResponseDocument `json:"response"`
	ValidationErrors []string         `json:"validation_errors"`
	CurrentPageIndex int              `json:"current_page_index"`
	Submitted        bool             `json:"submitted"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	ExpiresAt        time.Time        `json:"expires_at"`
}
