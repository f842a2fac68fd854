package questionnaireSessions

import (
	"context"
	"errors"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/app/models"
	responseEngine "questionnaire-service/internal/app/services/core/response_engine"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/dto/requests"
	"questionnaire-service/internal/pkg/dto/responses"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type questionnaireSessionUsecase struct {
	QuestionnaireUsecase contracts.QuestionnaireUsecase
	SubmissionUsecase    contracts.SubmissionUsecase
	SessionStore         contracts.SessionStore
	SessionTokenManager  contracts.SessionTokenManager
	Log                  *zap.Logger
	now                  func() time.Time
}

func NewQuestionnaireSessionUsecase(
	questionnaireUsecase contracts.QuestionnaireUsecase,
	submissionUsecase contracts.SubmissionUsecase,
	sessionStore contracts.SessionStore,
	sessionTokenManager contracts.SessionTokenManager,
	logger *zap.Logger,
) contracts.SessionUsecase {
	return &questionnaireSessionUsecase{
		QuestionnaireUsecase: questionnaireUsecase,
		SubmissionUsecase:    submissionUsecase,
		SessionStore:         sessionStore,
		SessionTokenManager:  sessionTokenManager,
		Log:                  logger,
		now:                  time.Now,
	}
}

// StartSession loads the form and opens an empty in-progress response. A load
// failure is returned as is and nothing is stored.
func (uc *questionnaireSessionUsecase) StartSession(ctx context.Context, request *requests.CreateSession) (*responses.QuestionnaireSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("questionnaireSessionUsecase.StartSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireIDKey, request.QuestionnaireID),
	)

	form, err := uc.QuestionnaireUsecase.LoadFormDefinition(ctx, request.QuestionnaireID)
	if err != nil {
		return nil, err
	}

	session := NewSession(utils.GenerateSessionID(), form, uc.now())
	state := session.State()
	err = uc.SessionStore.Create(ctx, state)
	if err != nil {
		uc.Log.Error("questionnaireSessionUsecase.StartSession error calling SessionStore.Create",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	token, err := uc.SessionTokenManager.CreateSessionToken(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("questionnaireSessionUsecase.StartSession succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.ID),
		zap.Int(constvars.LoggingPageCountKey, session.PageCount()),
	)

	view := buildSessionView(session, state)
	view.SessionToken = token
	return view, nil
}

func (uc *questionnaireSessionUsecase) FindSession(ctx context.Context, sessionID string) (*responses.QuestionnaireSession, error) {
	state, err := uc.SessionStore.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return buildSessionView(RestoreSession(state), state), nil
}

// UpdateAnswer records a single answer. The linkId does not have to exist in
// the form.
func (uc *questionnaireSessionUsecase) UpdateAnswer(ctx context.Context, request *requests.UpsertAnswer) (*responses.QuestionnaireSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("questionnaireSessionUsecase.UpdateAnswer called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, request.SessionID),
		zap.String(constvars.LoggingLinkIDKey, request.LinkID),
	)

	value, err := utils.MapFHIRAnswerToAnswerValue(request.Answer)
	if err != nil {
		return nil, exceptions.ErrUnsupportedAnswer(err, request.LinkID)
	}

	var session *Session
	state, err := uc.SessionStore.Update(ctx, request.SessionID, func(state *models.SessionState) error {
		session = RestoreSession(state)
		if session.IsSubmitted() {
			return exceptions.ErrSessionAlreadySubmitted(nil, request.SessionID)
		}

		if request.Index == nil {
			session.Engine().UpsertAnswer(request.LinkID, value)
		} else {
			err := session.Engine().UpsertAnswerAt(request.LinkID, *request.Index, value)
			if errors.Is(err, responseEngine.ErrAnswerIndexOutOfRange) {
				return exceptions.ErrAnswerIndexOutOfRange(err, *request.Index, request.LinkID)
			}
			if err != nil {
				return exceptions.ErrServerProcess(err)
			}
		}

		session.WriteState(state)
		return nil
	})
	if err != nil {
		uc.Log.Error("questionnaireSessionUsecase.UpdateAnswer error calling SessionStore.Update",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	return buildSessionView(session, state), nil
}

func (uc *questionnaireSessionUsecase) FindAnswer(ctx context.Context, request *requests.FindAnswer) (*responses.Answer, error) {
	state, err := uc.SessionStore.Find(ctx, request.SessionID)
	if err != nil {
		return nil, err
	}

	engine := RestoreSession(state).Engine()
	answer := &responses.Answer{
		LinkID:             request.LinkID,
		Index:              request.Index,
		HasValidationError: engine.HasValidationError(request.LinkID),
	}

	value, ok := engine.GetAnswerAt(request.LinkID, request.Index)
	if ok {
		answer.Answered = true
		answer.Meaningful = models.IsMeaningful(value)
		answer.Answer = utils.MapAnswerValueToFHIRAnswer(value)
	}
	return answer, nil
}

func (uc *questionnaireSessionUsecase) NextPage(ctx context.Context, sessionID string) (*responses.PageNavigation, error) {
	return uc.navigate(ctx, sessionID, "NextPage", (*Session).NextPage)
}

func (uc *questionnaireSessionUsecase) PreviousPage(ctx context.Context, sessionID string) (*responses.PageNavigation, error) {
	return uc.navigate(ctx, sessionID, "PreviousPage", (*Session).PreviousPage)
}

func (uc *questionnaireSessionUsecase) navigate(ctx context.Context, sessionID, operation string, move func(*Session) bool) (*responses.PageNavigation, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	var (
		session  *Session
		advanced bool
	)
	state, err := uc.SessionStore.Update(ctx, sessionID, func(state *models.SessionState) error {
		session = RestoreSession(state)
		if session.IsSubmitted() {
			return exceptions.ErrSessionAlreadySubmitted(nil, sessionID)
		}
		advanced = move(session)
		session.WriteState(state)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Log.Info("questionnaireSessionUsecase."+operation+" finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.Bool(constvars.LoggingSuccessKey, advanced),
		zap.Int(constvars.LoggingPageIndexKey, session.CurrentPageIndex()),
		zap.Strings(constvars.LoggingValidationErrorsKey, state.ValidationErrors),
	)

	return &responses.PageNavigation{
		Advanced: advanced,
		Session:  buildSessionView(session, state),
	}, nil
}

// SubmitSession hands the response off while the session is held, so one
// session is never submitted twice. An invalid last page keeps its new flags.
// A failed hand-off leaves the session untouched and can be retried.
func (uc *questionnaireSessionUsecase) SubmitSession(ctx context.Context, sessionID string) (*responses.Submission, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("questionnaireSessionUsecase.SubmitSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	var (
		session *Session
		receipt *models.SubmissionReceipt
		gateErr error
	)
	state, err := uc.SessionStore.Update(ctx, sessionID, func(state *models.SessionState) error {
		session = RestoreSession(state)

		err := session.SubmitGate()
		switch {
		case errors.Is(err, ErrSessionSubmitted):
			return exceptions.ErrSessionAlreadySubmitted(err, sessionID)
		case errors.Is(err, ErrNotOnLastPage):
			return exceptions.ErrNotOnLastPage(err, sessionID, session.CurrentPageIndex(), session.PageCount())
		case errors.Is(err, ErrPageInvalid):
			gateErr = exceptions.ErrPageInvalid(err, sessionID, session.CurrentPageIndex())
			session.WriteState(state)
			return nil
		}

		receipt, err = uc.SubmissionUsecase.Submit(ctx, sessionID, session.SubmissionDocument(), session.Score())
		if err != nil {
			return err
		}

		session.MarkSubmitted()
		session.WriteState(state)
		return nil
	})
	if err != nil {
		uc.Log.Error("questionnaireSessionUsecase.SubmitSession submission failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		return nil, err
	}
	if gateErr != nil {
		uc.Log.Info("questionnaireSessionUsecase.SubmitSession last page incomplete",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Strings(constvars.LoggingValidationErrorsKey, state.ValidationErrors),
		)
		return nil, gateErr
	}

	return &responses.Submission{
		Receipt: receipt,
		Session: buildSessionView(session, state),
	}, nil
}

func (uc *questionnaireSessionUsecase) AbandonSession(ctx context.Context, sessionID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("questionnaireSessionUsecase.AbandonSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	_, err := uc.SessionStore.Find(ctx, sessionID)
	if err != nil {
		return err
	}
	return uc.SessionStore.Delete(ctx, sessionID)
}

func buildSessionView(session *Session, state *models.SessionState) *responses.QuestionnaireSession {
	view := &responses.QuestionnaireSession{
		SessionID:          session.ID,
		Questionnaire:      session.Questionnaire(),
		Response:           utils.MapResponseDocumentToFHIR(session.Engine().Response()),
		CurrentPageIndex:   session.CurrentPageIndex(),
		PageCount:          session.PageCount(),
		IsLastPage:         session.IsOnLastPage(),
		IsPageValid:        session.IsCurrentPageValid(),
		ValidationErrors:   session.Engine().ValidationErrors(),
		UnansweredRequired: session.UnansweredRequired(),
		Score:              session.Score(),
		Submitted:          session.IsSubmitted(),
	}
	if state != nil && !state.ExpiresAt.IsZero() {
		expiresAt := state.ExpiresAt
		view.ExpiresAt = &expiresAt
	}
	return view
}
