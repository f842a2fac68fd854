package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/utils"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

func requestIDFromRequest(log *zap.Logger, w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		log.Error(operation+" requestID not found in context",
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
		)
		utils.BuildErrorResponse(log, w, exceptions.ErrMissingRequestID(nil))
		return "", false
	}
	return requestID, true
}

func buildUsecaseErrorResponse(log *zap.Logger, w http.ResponseWriter, requestID, operation string, err error) {
	log.Error(operation+" error from usecase",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}

// parseAnswerIndex reads the optional ?index= query parameter.
func parseAnswerIndex(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get(constvars.QueryParamAnswerIndex)
	if raw == "" {
		return nil, nil
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return nil, exceptions.ErrURLParamValidation(err, constvars.QueryParamAnswerIndex)
	}
	return &index, nil
}

// linkIDFromRequest returns the decoded {link_id} segment. chi matches on the
// raw path when the request carries escapes such as %2F, so the param is
// still encoded in that case.
func linkIDFromRequest(r *http.Request) (string, error) {
	linkID := chi.URLParam(r, constvars.URLParamLinkID)
	if r.URL.RawPath == "" {
		return linkID, nil
	}
	decoded, err := url.PathUnescape(linkID)
	if err != nil {
		return "", exceptions.ErrURLParamValidation(err, constvars.URLParamLinkID)
	}
	return decoded, nil
}
