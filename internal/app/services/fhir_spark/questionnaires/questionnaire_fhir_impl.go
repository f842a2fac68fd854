package questionnaires

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/fhir_dto"
	"questionnaire-service/internal/pkg/utils"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type questionnaireFhirClient struct {
	BaseUrl string
	Client  *http.Client
	Log     *zap.Logger
}

// NewQuestionnaireFhirClient reads questionnaires from
// {baseUrl}/api/questionnaire/{id}.
func NewQuestionnaireFhirClient(baseUrl string, timeout time.Duration, logger *zap.Logger) contracts.FormSource {
	return &questionnaireFhirClient{
		BaseUrl: strings.TrimRight(baseUrl, "/"),
		Client:  &http.Client{Timeout: timeout},
		Log:     logger,
	}
}

func (c *questionnaireFhirClient) FindQuestionnaireByID(ctx context.Context, questionnaireID string) (*fhir_dto.Questionnaire, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	endpoint := fmt.Sprintf(constvars.FormSourceQuestionnairePathFormat, c.BaseUrl, url.PathEscape(questionnaireID))
	c.Log.Info("questionnaireFhirClient.FindQuestionnaireByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQuestionnaireIDKey, questionnaireID),
		zap.String(constvars.LoggingURLKey, endpoint),
	)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, endpoint, nil)
	if err != nil {
		return nil, exceptions.ErrQuestionnaireLoad(exceptions.ErrCreateHTTPRequest(err), questionnaireID)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON+", "+constvars.MIMEApplicationJSON)
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		c.Log.Error("questionnaireFhirClient.FindQuestionnaireByID error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrQuestionnaireLoad(exceptions.ErrSendHTTPRequest(err), questionnaireID)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrQuestionnaireLoad(exceptions.ErrReadBody(err), questionnaireID)
	}

	if resp.StatusCode != constvars.StatusOK {
		fhirErr := utils.OperationOutcomeError(resp.StatusCode, bodyBytes)
		c.Log.Error("questionnaireFhirClient.FindQuestionnaireByID form source refused request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
			zap.Error(fhirErr),
		)
		return nil, exceptions.ErrQuestionnaireLoad(fhirErr, questionnaireID)
	}

	questionnaire := new(fhir_dto.Questionnaire)
	err = json.Unmarshal(bodyBytes, questionnaire)
	if err != nil {
		return nil, exceptions.ErrQuestionnaireMalformed(err, questionnaireID)
	}
	return questionnaire, nil
}
