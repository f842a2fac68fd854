package contracts

import (
	"context"
	"questionnaire-service/internal/app/models"
	"questionnaire-service/internal/pkg/fhir_dto"
)

// FormSource fetches questionnaire definitions.
type FormSource interface {
	FindQuestionnaireByID(ctx context.Context, questionnaireID string) (*fhir_dto.Questionnaire, error)
}

type QuestionnaireUsecase interface {
	LoadFormDefinition(ctx context.Context, questionnaireID string) (*models.FormDefinition, error)
}
