package formsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/fhir_dto"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	errInvalidQuestionnaireID    = errors.New("questionnaire id must be a plain file name")
	errQuestionnaireFileNotFound = errors.New("no questionnaire file found")
)

var fileExtensions = []string{".json", ".yaml", ".yml"}

type fileFormSource struct {
	Directory string
	Log       *zap.Logger
}

// NewFileFormSource serves questionnaires from {directory}/{id}.json,
// {id}.yaml or {id}.yml, checked in that order.
func NewFileFormSource(directory string, logger *zap.Logger) contracts.FormSource {
	return &fileFormSource{
		Directory: directory,
		Log:       logger,
	}
}

func (s *fileFormSource) FindQuestionnaireByID(ctx context.Context, questionnaireID string) (*fhir_dto.Questionnaire, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if questionnaireID == "" || questionnaireID != filepath.Base(questionnaireID) || strings.HasPrefix(questionnaireID, ".") {
		return nil, exceptions.ErrQuestionnaireLoad(errInvalidQuestionnaireID, questionnaireID)
	}

	for _, extension := range fileExtensions {
		path := filepath.Join(s.Directory, questionnaireID+extension)
		content, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, exceptions.ErrReadFile(err, path)
		}

		s.Log.Info("fileFormSource.FindQuestionnaireByID loaded file",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQuestionnaireIDKey, questionnaireID),
			zap.String(constvars.LoggingObjectKey, path),
		)
		return decodeQuestionnaire(questionnaireID, extension, content)
	}

	return nil, exceptions.ErrQuestionnaireLoad(fmt.Errorf("%w in %s", errQuestionnaireFileNotFound, s.Directory), questionnaireID)
}

func decodeQuestionnaire(questionnaireID, extension string, content []byte) (*fhir_dto.Questionnaire, error) {
	questionnaire := new(fhir_dto.Questionnaire)
	if extension == ".json" {
		err := json.Unmarshal(content, questionnaire)
		if err != nil {
			return nil, exceptions.ErrQuestionnaireMalformed(err, questionnaireID)
		}
	} else {
		err := yaml.Unmarshal(content, questionnaire)
		if err != nil {
			return nil, exceptions.ErrQuestionnaireMalformed(exceptions.ErrCannotParseYAML(err), questionnaireID)
		}
	}

	if questionnaire.ID == "" {
		questionnaire.ID = questionnaireID
	}
	return questionnaire, nil
}
