package formsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const moodYAML = `resourceType: Questionnaire
title: Mood check
status: active
item:
  - linkId: page-1
    type: group
    item:
      - linkId: mood
        type: choice
        text: How is your mood?
        required: true
        answerOption:
          - valueCoding:
              code: good
              display: Good
            valueInteger: 0
          - valueCoding:
              code: low
              display: Low
            valueInteger: 2
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func assertLoadFailure(t *testing.T, err error) {
	t.Helper()
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr), "expected CustomError, got %v", err)
	assert.Equal(t, constvars.StatusBadGateway, customErr.StatusCode)
}

func TestFileFormSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mood.yaml", moodYAML)
	writeFile(t, dir, "sleep.json", `{"resourceType":"Questionnaire","id":"sleep-v2","item":[{"linkId":"p","type":"group"}]}`)
	writeFile(t, dir, "broken.yml", "item: [unterminated")

	source := NewFileFormSource(dir, zap.NewNop())
	ctx := context.Background()

	t.Run("yaml file, id taken from the file name", func(t *testing.T) {
		questionnaire, err := source.FindQuestionnaireByID(ctx, "mood")
		require.NoError(t, err)
		assert.Equal(t, "mood", questionnaire.ID)
		assert.Equal(t, "Mood check", questionnaire.Title)
		require.Len(t, questionnaire.Item, 1)
		mood := questionnaire.Item[0].Item[0]
		assert.True(t, *mood.Required)
		require.Len(t, mood.AnswerOption, 2)
		assert.Equal(t, "low", mood.AnswerOption[1].ValueCoding.Code)
		assert.Equal(t, 2, *mood.AnswerOption[1].ValueInteger)
	})

	t.Run("json file keeps its own id", func(t *testing.T) {
		questionnaire, err := source.FindQuestionnaireByID(ctx, "sleep")
		require.NoError(t, err)
		assert.Equal(t, "sleep-v2", questionnaire.ID)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := source.FindQuestionnaireByID(ctx, "absent")
		assertLoadFailure(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := source.FindQuestionnaireByID(ctx, "broken")
		assertLoadFailure(t, err)
	})

	t.Run("path traversal is refused", func(t *testing.T) {
		_, err := source.FindQuestionnaireByID(ctx, "../mood")
		assertLoadFailure(t, err)
	})
}
