package questionnaire_responses

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/fhir_dto"
	"questionnaire-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type walletSubmitter struct {
	SubmitUrl string
	AppID     string
	APIKey    string
	Client    *http.Client
	Log       *zap.Logger
}

// NewWalletSubmitter posts finished responses to the wallet's intake
// endpoint, identifying the application with X-App-ID and X-API-Key.
func NewWalletSubmitter(submitUrl, appID, apiKey string, timeout time.Duration, logger *zap.Logger) contracts.ResponseSubmitter {
	return &walletSubmitter{
		SubmitUrl: submitUrl,
		AppID:     appID,
		APIKey:    apiKey,
		Client:    &http.Client{Timeout: timeout},
		Log:       logger,
	}
}

// SubmitQuestionnaireResponse returns the stored resource when the wallet
// echoes one back, otherwise the submitted resource.
func (c *walletSubmitter) SubmitQuestionnaireResponse(ctx context.Context, response *fhir_dto.QuestionnaireResponse) (*fhir_dto.QuestionnaireResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("walletSubmitter.SubmitQuestionnaireResponse called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireIDKey, response.Questionnaire),
	)

	requestJSON, err := json.Marshal(response)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.SubmitUrl, bytes.NewReader(requestJSON))
	if err != nil {
		return nil, exceptions.ErrSubmitQuestionnaireResponse(exceptions.ErrCreateHTTPRequest(err))
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)
	if c.AppID != "" {
		req.Header.Set(constvars.HeaderXAppID, c.AppID)
	}
	if c.APIKey != "" {
		req.Header.Set(constvars.HeaderXAPIKey, c.APIKey)
	}
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		c.Log.Error("walletSubmitter.SubmitQuestionnaireResponse error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSubmitQuestionnaireResponse(exceptions.ErrSendHTTPRequest(err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrSubmitQuestionnaireResponse(exceptions.ErrReadBody(err))
	}

	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= 300 {
		fhirErr := utils.OperationOutcomeError(resp.StatusCode, bodyBytes)
		c.Log.Error("walletSubmitter.SubmitQuestionnaireResponse wallet refused response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.Error(fhirErr),
		)
		return nil, exceptions.ErrSubmitQuestionnaireResponse(fhirErr)
	}

	stored := new(fhir_dto.QuestionnaireResponse)
	if len(bytes.TrimSpace(bodyBytes)) > 0 {
		err = json.Unmarshal(bodyBytes, stored)
		if err == nil && stored.ResourceType == constvars.ResourceQuestionnaireResponse {
			return stored, nil
		}
	}

	echo := *response
	return &echo, nil
}
