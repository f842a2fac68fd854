package responses

import (
	"questionnaire-service/internal/app/models"
	"questionnaire-service/internal/pkg/fhir_dto"
	"time"
)

type QuestionnaireSession struct {
	SessionID          string                          `json:"session_id,omitempty"`
	SessionToken       string                          `json:"session_token,omitempty"`
	Questionnaire      *models.FormDefinition          `json:"questionnaire"`
	Response           *fhir_dto.QuestionnaireResponse `json:"response"`
	CurrentPageIndex   int                             `json:"current_page_index"`
	PageCount          int                             `json:"page_count"`
	IsLastPage         bool                            `json:"is_last_page"`
	IsPageValid        bool                            `json:"is_page_valid"`
	ValidationErrors   []string                        `json:"validation_errors"`
	UnansweredRequired []string                        `json:"unanswered_required"`
	Score              *int                            `json:"score,omitempty"`
	Submitted          bool                            `json:"submitted"`
	ExpiresAt          *time.Time                      `json:"expires_at,omitempty"`
}

type PageNavigation struct {
	Advanced bool                  `json:"advanced"`
	Session  *QuestionnaireSession `json:"session"`
}

type Answer struct {
	LinkID             string                                    `json:"link_id"`
	Index              int                                       `json:"index"`
	Answered           bool                                      `json:"answered"`
	Meaningful         bool                                      `json:"meaningful"`
	HasValidationError bool                                      `json:"has_validation_error"`
	Answer             *fhir_dto.QuestionnaireResponseItemAnswer `json:"answer,omitempty"`
}

type Submission struct {
	Receipt *models.SubmissionReceipt `json:"receipt"`
	Session *QuestionnaireSession     `json:"session"`
}
