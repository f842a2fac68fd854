package contracts

import (
	"context"
	"questionnaire-service/internal/pkg/fhir_dto"
)

// ResponseSubmitter hands a finished response to the wallet service.
type ResponseSubmitter interface {
	SubmitQuestionnaireResponse(ctx context.Context, response *fhir_dto.QuestionnaireResponse) (*fhir_dto.QuestionnaireResponse, error)
}
