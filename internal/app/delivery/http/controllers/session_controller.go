package controllers

import (
	"context"
	"net/http"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/dto/requests"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type SessionController struct {
	Log            *zap.Logger
	SessionUsecase contracts.SessionUsecase
}

func NewSessionController(logger *zap.Logger, sessionUsecase contracts.SessionUsecase) *SessionController {
	return &SessionController{
		Log:            logger,
		SessionUsecase: sessionUsecase,
	}
}

func (ctrl *SessionController) StartSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SessionController.StartSession")
	if !ok {
		return
	}
	ctrl.Log.Info("SessionController.StartSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreateSession)
	err := json.NewDecoder(r.Body).Decode(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	utils.SanitizeCreateSessionRequest(request)
	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.SessionUsecase.StartSession(ctx, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "SessionController.StartSession", err)
		return
	}

	ctrl.Log.Info("SessionController.StartSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, result.SessionID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SuccessStartSession, result)
}

func (ctrl *SessionController) FindSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SessionController.FindSession")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.SessionUsecase.FindSession(ctx, chi.URLParam(r, constvars.URLParamSessionID))
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "SessionController.FindSession", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessFindSession, result)
}

// UpdateAnswer takes a FHIR answer under "answer". An ?index= query writes
// one position of a repeating item.
func (ctrl *SessionController) UpdateAnswer(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SessionController.UpdateAnswer")
	if !ok {
		return
	}

	request := new(requests.UpsertAnswer)
	err := json.NewDecoder(r.Body).Decode(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	request.Index, err = parseAnswerIndex(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.SessionID = chi.URLParam(r, constvars.URLParamSessionID)
	request.LinkID, err = linkIDFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctrl.Log.Info("SessionController.UpdateAnswer called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
		zap.String(constvars.LoggingLinkIDKey, request.LinkID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.SessionUsecase.UpdateAnswer(ctx, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "SessionController.UpdateAnswer", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessUpdateAnswer, result)
}

func (ctrl *SessionController) FindAnswer(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SessionController.FindAnswer")
	if !ok {
		return
	}

	index, err := parseAnswerIndex(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	linkID, err := linkIDFromRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request := &requests.FindAnswer{
		SessionID: chi.URLParam(r, constvars.URLParamSessionID),
		LinkID:    linkID,
	}
	if index != nil {
		request.Index = *index
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.SessionUsecase.FindAnswer(ctx, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "SessionController.FindAnswer", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessFindAnswer, result)
}

// NextPage answers 200 either way; a blocked move is reported in the body.
func (ctrl *SessionController) NextPage(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SessionController.NextPage")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.SessionUsecase.NextPage(ctx, chi.URLParam(r, constvars.URLParamSessionID))
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "SessionController.NextPage", err)
		return
	}

	message := constvars.SuccessNextPage
	if !result.Advanced {
		message = constvars.SuccessNextPageBlocked
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, result)
}

func (ctrl *SessionController) PreviousPage(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SessionController.PreviousPage")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.SessionUsecase.PreviousPage(ctx, chi.URLParam(r, constvars.URLParamSessionID))
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "SessionController.PreviousPage", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessPreviousPage, result)
}

func (ctrl *SessionController) SubmitSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SessionController.SubmitSession")
	if !ok {
		return
	}
	sessionID := chi.URLParam(r, constvars.URLParamSessionID)
	ctrl.Log.Info("SessionController.SubmitSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := ctrl.SessionUsecase.SubmitSession(ctx, sessionID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "SessionController.SubmitSession", err)
		return
	}

	ctrl.Log.Info("SessionController.SubmitSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDigestKey, result.Receipt.Digest),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessSubmitResponse, result)
}

func (ctrl *SessionController) AbandonSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SessionController.AbandonSession")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	err := ctrl.SessionUsecase.AbandonSession(ctx, chi.URLParam(r, constvars.URLParamSessionID))
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "SessionController.AbandonSession", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SuccessAbandonSession, nil)
}
