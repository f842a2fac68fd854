package utils

import (
	"html"
	"questionnaire-service/internal/pkg/dto/requests"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	labelPolicy     *bluemonday.Policy
	labelPolicyOnce sync.Once
)

func strictPolicy() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	return labelPolicy
}

// SanitizeLabel strips markup from questionnaire text so it renders as plain
// text in both the API and the terminal.
func SanitizeLabel(input string) string {
	if input == "" {
		return input
	}
	cleaned := strictPolicy().Sanitize(input)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func SanitizeCreateSessionRequest(input *requests.CreateSession) {
	input.QuestionnaireID = strings.TrimSpace(input.QuestionnaireID)
}
