package utils

import (
	"questionnaire-service/internal/pkg/dto/requests"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "How are you feeling?", "How are you feeling?"},
		{"strips markup", "<p>Feeling <b>down</b>?</p>", "Feeling down?"},
		{"drops scripts", `Mood<script>alert("x")</script>`, "Mood"},
		{"keeps ampersands readable", "Sleep & appetite", "Sleep & appetite"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeLabel(tt.input))
		})
	}
}

func TestSanitizeCreateSessionRequest(t *testing.T) {
	request := &requests.CreateSession{QuestionnaireID: "  phq-9 \n"}
	SanitizeCreateSessionRequest(request)
	assert.Equal(t, "phq-9", request.QuestionnaireID)
}

func TestDigestDocument(t *testing.T) {
	first := DigestDocument([]byte(`{"status":"completed"}`))
	second := DigestDocument([]byte(`{"status":"completed"}`))
	other := DigestDocument([]byte(`{"status":"in-progress"}`))

	assert.Len(t, first, 64)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestValidateStructLinkID(t *testing.T) {
	tests := []struct {
		linkID string
		valid  bool
	}{
		{"1.2-mood", true},
		{"/29463-7", true},
		{"phq9:1", true},
		{"has space", true},
		{"_a", true},
		{"", false},
		{"line\nbreak", false},
		{strings.Repeat("a", 256), false},
	}

	for _, tt := range tests {
		request := &requests.FindAnswer{SessionID: "0b6e2f5c-7f5e-4f7a-9a51-1d2b3c4d5e6f", LinkID: tt.linkID}
		err := ValidateStruct(request)
		if tt.valid {
			assert.NoError(t, err, tt.linkID)
		} else {
			assert.Error(t, err, tt.linkID)
		}
	}
}
