package requests

import "questionnaire-service/internal/pkg/fhir_dto"

type CreateSession struct {
	QuestionnaireID string `json:"questionnaire_id" validate:"required,max=64,excludes=/"`
}

type UpsertAnswer struct {
	SessionID string                                   `json:"-" validate:"required,uuid"`
	LinkID    string                                   `json:"-" validate:"required,max=255,link_id"`
	Index     *int                                     `json:"-" validate:"omitempty,gte=0"`
	Answer    fhir_dto.QuestionnaireResponseItemAnswer `json:"answer"`
}

type FindAnswer struct {
	SessionID string `validate:"required,uuid"`
	LinkID    string `validate:"required,max=255,link_id"`
	Index     int    `validate:"gte=0"`
}
