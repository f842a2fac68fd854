package controllers

import (
	"context"
	"net/http"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type QuestionnaireController struct {
	Log                  *zap.Logger
	QuestionnaireUsecase contracts.QuestionnaireUsecase
}

func NewQuestionnaireController(logger *zap.Logger, questionnaireUsecase contracts.QuestionnaireUsecase) *QuestionnaireController {
	return &QuestionnaireController{
		Log:                  logger,
		QuestionnaireUsecase: questionnaireUsecase,
	}
}

func (ctrl *QuestionnaireController) FindQuestionnaireByID(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "QuestionnaireController.FindQuestionnaireByID")
	if !ok {
		return
	}

	questionnaireID := chi.URLParam(r, constvars.URLParamQuestionnaireID)
	ctrl.Log.Info("QuestionnaireController.FindQuestionnaireByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireIDKey, questionnaireID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.QuestionnaireUsecase.LoadFormDefinition(ctx, questionnaireID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "QuestionnaireController.FindQuestionnaireByID", err)
		return
	}

	ctrl.Log.Info("QuestionnaireController.FindQuestionnaireByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingPageCountKey, result.PageCount()),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessFindQuestionnaire, result)
}
