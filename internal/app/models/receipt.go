package models

import "time"

// SubmissionReceipt records one successful hand-off of a completed response.
type SubmissionReceipt struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	SessionID       string    `json:"session_id" bson:"session_id"`
	QuestionnaireID string    `json:"questionnaire_id" bson:"questionnaire_id"`
	RemoteID        string    `json:"remote_id,omitempty" bson:"remote_id,omitempty"`
	Digest          string    `json:"digest" bson:"digest"`
	Score           *int      `json:"score,omitempty" bson:"score,omitempty"`
	ArchiveKey      string    `json:"archive_key,omitempty" bson:"archive_key,omitempty"`
	SubmittedAt     time.Time `json:"submitted_at" bson:"submitted_at"`
}

// SubmissionEvent is published after a response is accepted by the wallet.
type SubmissionEvent struct {
	Event           string    `json:"event"`
	SessionID       string    `json:"session_id"`
	QuestionnaireID string    `json:"questionnaire_id"`
	RemoteID        string    `json:"remote_id,omitempty"`
	Digest          string    `json:"digest"`
	SubmittedAt     time.Time `json:"submitted_at"`
}
