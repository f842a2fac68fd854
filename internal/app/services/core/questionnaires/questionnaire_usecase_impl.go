package questionnaires

import (
	"context"
	"errors"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/app/models"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type questionnaireUsecase struct {
	FormSource contracts.FormSource
	Log        *zap.Logger
}

func NewQuestionnaireUsecase(formSource contracts.FormSource, logger *zap.Logger) contracts.QuestionnaireUsecase {
	return &questionnaireUsecase{
		FormSource: formSource,
		Log:        logger,
	}
}

// LoadFormDefinition fetches the questionnaire and builds its paged form
// model. Every failure here is a load error for the caller.
func (uc *questionnaireUsecase) LoadFormDefinition(ctx context.Context, questionnaireID string) (*models.FormDefinition, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("questionnaireUsecase.LoadFormDefinition called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireIDKey, questionnaireID),
	)

	questionnaire, err := uc.FormSource.FindQuestionnaireByID(ctx, questionnaireID)
	if err != nil {
		uc.Log.Error("questionnaireUsecase.LoadFormDefinition error calling FormSource.FindQuestionnaireByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) && customErr.ClientMessage == constvars.ErrClientQuestionnaireLoad {
			return nil, err
		}
		return nil, exceptions.ErrQuestionnaireLoad(err, questionnaireID)
	}

	form, err := utils.MapFHIRQuestionnaireToFormDefinition(questionnaire)
	if err != nil {
		uc.Log.Error("questionnaireUsecase.LoadFormDefinition questionnaire cannot be paged",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQuestionnaireIDKey, questionnaireID),
			zap.Error(err),
		)
		if errors.Is(err, utils.ErrQuestionnaireHasNoItems) || errors.Is(err, utils.ErrQuestionnaireHasNoPages) {
			return nil, exceptions.ErrQuestionnaireNoPages(err, questionnaireID)
		}
		return nil, exceptions.ErrQuestionnaireMalformed(err, questionnaireID)
	}

	if form.ID == "" {
		form.ID = questionnaireID
	}

	uc.Log.Info("questionnaireUsecase.LoadFormDefinition succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireIDKey, form.ID),
		zap.Int(constvars.LoggingPageCountKey, form.PageCount()),
	)
	return form, nil
}
