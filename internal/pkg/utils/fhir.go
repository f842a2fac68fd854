package utils

import (
	"errors"
	"fmt"
	"math"
	"questionnaire-service/internal/app/models"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/fhir_dto"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

var (
	ErrQuestionnaireHasNoItems   = errors.New("questionnaire has no items")
	ErrQuestionnaireHasNoPages   = errors.New("questionnaire has no group items to use as pages")
	ErrAnswerValueNotSupported   = errors.New("answer value type is not supported")
	ErrQuestionnaireWrongType    = errors.New("resource is not a Questionnaire")
	ErrQuestionnaireItemNoLinkID = errors.New("questionnaire item without linkId")
)

// MapFHIRQuestionnaireToFormDefinition converts the wire questionnaire into
// the form model. Only top-level group items become pages.
func MapFHIRQuestionnaireToFormDefinition(questionnaire *fhir_dto.Questionnaire) (*models.FormDefinition, error) {
	if questionnaire.ResourceType != "" && questionnaire.ResourceType != constvars.ResourceQuestionnaire {
		return nil, fmt.Errorf("%w: got %s", ErrQuestionnaireWrongType, questionnaire.ResourceType)
	}
	if len(questionnaire.Item) == 0 {
		return nil, ErrQuestionnaireHasNoItems
	}

	form := &models.FormDefinition{
		ID:     questionnaire.ID,
		URL:    questionnaire.URL,
		Title:  SanitizeLabel(questionnaire.Title),
		Status: questionnaire.Status,
		Pages:  make([]models.FormItem, 0, len(questionnaire.Item)),
	}

	for _, item := range questionnaire.Item {
		if item.Type != string(models.ItemTypeGroup) {
			continue
		}
		page, err := mapQuestionnaireItem(item)
		if err != nil {
			return nil, err
		}
		form.Pages = append(form.Pages, page)
	}

	if len(form.Pages) == 0 {
		return nil, ErrQuestionnaireHasNoPages
	}
	return form, nil
}

func mapQuestionnaireItem(item fhir_dto.QuestionnaireItem) (models.FormItem, error) {
	if item.LinkID == "" {
		return models.FormItem{}, ErrQuestionnaireItemNoLinkID
	}

	formItem := models.FormItem{
		LinkID:   item.LinkID,
		Type:     models.ItemType(item.Type),
		Text:     SanitizeLabel(item.Text),
		Prefix:   SanitizeLabel(item.Prefix),
		Required: boolValue(item.Required),
		Repeats:  boolValue(item.Repeats),
		ReadOnly: boolValue(item.ReadOnly),
	}
	if item.MaxLength != nil {
		formItem.MaxLength = *item.MaxLength
	}

	for _, option := range item.AnswerOption {
		if mapped, ok := mapAnswerOption(option); ok {
			formItem.AnswerOptions = append(formItem.AnswerOptions, mapped)
		}
	}

	for _, child := range item.Item {
		mapped, err := mapQuestionnaireItem(child)
		if err != nil {
			return models.FormItem{}, err
		}
		formItem.Items = append(formItem.Items, mapped)
	}
	return formItem, nil
}

func mapAnswerOption(option fhir_dto.QuestionnaireItemAnswerOption) (models.AnswerOption, bool) {
	var mapped models.AnswerOption
	switch {
	case option.ValueCoding != nil:
		mapped = models.AnswerOption{
			System:  option.ValueCoding.System,
			Code:    option.ValueCoding.Code,
			Display: SanitizeLabel(option.ValueCoding.Display),
		}
		if option.ValueInteger != nil {
			weight := *option.ValueInteger
			mapped.Weight = &weight
		}
	case option.ValueString != nil:
		mapped = models.AnswerOption{Code: *option.ValueString, Display: SanitizeLabel(*option.ValueString)}
	case option.ValueInteger != nil:
		code := strconv.Itoa(*option.ValueInteger)
		mapped = models.AnswerOption{Code: code, Display: code}
	case option.ValueDate != nil:
		mapped = models.AnswerOption{Code: *option.ValueDate, Display: *option.ValueDate}
	case option.ValueTime != nil:
		mapped = models.AnswerOption{Code: *option.ValueTime, Display: *option.ValueTime}
	default:
		return models.AnswerOption{}, false
	}

	if mapped.Weight == nil {
		mapped.Weight = weightFromExtensions(option.Extension)
	}
	if mapped.Display == "" {
		mapped.Display = mapped.Code
	}
	return mapped, true
}

func weightFromExtensions(extensions []fhir_dto.Extension) *int {
	for _, extension := range extensions {
		if extension.Url != fhir_dto.ExtensionOrdinalValue && extension.Url != fhir_dto.ExtensionItemWeight {
			continue
		}
		switch {
		case extension.ValueInteger != nil:
			weight := *extension.ValueInteger
			return &weight
		case extension.ValueDecimal != nil:
			weight := int(math.Round(*extension.ValueDecimal))
			return &weight
		}
	}
	return nil
}

func boolValue(value *bool) bool {
	return value != nil && *value
}

// MapFHIRAnswerToAnswerValue picks the answer variant from the populated value
// field. An answer with no populated field is Empty. A coding may carry its
// option weight in valueInteger.
func MapFHIRAnswerToAnswerValue(answer fhir_dto.QuestionnaireResponseItemAnswer) (models.AnswerValue, error) {
	switch {
	case answer.ValueCoding != nil:
		coding := models.CodingAnswer{
			System:  answer.ValueCoding.System,
			Code:    answer.ValueCoding.Code,
			Display: answer.ValueCoding.Display,
		}
		if answer.ValueInteger != nil {
			weight := *answer.ValueInteger
			coding.Weight = &weight
		}
		return coding, nil
	case answer.ValueBoolean != nil:
		return models.BooleanAnswer{Value: *answer.ValueBoolean}, nil
	case answer.ValueInteger != nil:
		return models.IntegerAnswer{Value: *answer.ValueInteger}, nil
	case answer.ValueDecimal != nil:
		return models.DecimalAnswer{Value: *answer.ValueDecimal}, nil
	case answer.ValueString != nil:
		return models.StringAnswer{Value: *answer.ValueString}, nil
	case answer.ValueDate != nil:
		return models.DateAnswer{Value: *answer.ValueDate}, nil
	case answer.ValueDateTime != nil:
		return models.DateTimeAnswer{Value: *answer.ValueDateTime}, nil
	case answer.ValueTime != nil:
		return models.TimeAnswer{Value: *answer.ValueTime}, nil
	case answer.ValueQuantity != nil:
		quantity := models.QuantityAnswer{
			Unit:   answer.ValueQuantity.Unit,
			System: answer.ValueQuantity.System,
			Code:   answer.ValueQuantity.Code,
		}
		if answer.ValueQuantity.Value != nil {
			quantity.Value = *answer.ValueQuantity.Value
		}
		return quantity, nil
	case answer.ValueUri != nil, answer.ValueAttachment != nil, answer.ValueReference != nil:
		return nil, ErrAnswerValueNotSupported
	default:
		return models.EmptyAnswer{}, nil
	}
}

// MapAnswerValueToFHIRAnswer is the inverse of MapFHIRAnswerToAnswerValue.
// Empty answers map to nil.
func MapAnswerValueToFHIRAnswer(answer models.AnswerValue) *fhir_dto.QuestionnaireResponseItemAnswer {
	switch v := answer.(type) {
	case models.CodingAnswer:
		out := &fhir_dto.QuestionnaireResponseItemAnswer{
			ValueCoding: &fhir_dto.Coding{System: v.System, Code: v.Code, Display: v.Display},
		}
		if v.Weight != nil {
			weight := *v.Weight
			out.ValueInteger = &weight
		}
		return out
	case models.BooleanAnswer:
		return &fhir_dto.QuestionnaireResponseItemAnswer{ValueBoolean: &v.Value}
	case models.IntegerAnswer:
		return &fhir_dto.QuestionnaireResponseItemAnswer{ValueInteger: &v.Value}
	case models.DecimalAnswer:
		return &fhir_dto.QuestionnaireResponseItemAnswer{ValueDecimal: &v.Value}
	case models.StringAnswer:
		return &fhir_dto.QuestionnaireResponseItemAnswer{ValueString: &v.Value}
	case models.DateAnswer:
		return &fhir_dto.QuestionnaireResponseItemAnswer{ValueDate: &v.Value}
	case models.DateTimeAnswer:
		return &fhir_dto.QuestionnaireResponseItemAnswer{ValueDateTime: &v.Value}
	case models.TimeAnswer:
		return &fhir_dto.QuestionnaireResponseItemAnswer{ValueTime: &v.Value}
	case models.QuantityAnswer:
		return &fhir_dto.QuestionnaireResponseItemAnswer{ValueQuantity: &fhir_dto.Quantity{
			Value:  &v.Value,
			Unit:   v.Unit,
			System: v.System,
			Code:   v.Code,
		}}
	default:
		return nil
	}
}

// MapResponseDocumentToFHIR serializes the response document as a flat
// QuestionnaireResponse. Empty answers are left out.
func MapResponseDocumentToFHIR(document models.ResponseDocument) *fhir_dto.QuestionnaireResponse {
	response := &fhir_dto.QuestionnaireResponse{
		ResourceType:  constvars.ResourceQuestionnaireResponse,
		Status:        string(document.Status),
		Questionnaire: document.Questionnaire,
		Authored:      document.Authored.UTC().Format(time.RFC3339),
		Item:          make([]fhir_dto.QuestionnaireResponseItem, 0, len(document.Items)),
	}
	for _, item := range document.Items {
		fhirItem := fhir_dto.QuestionnaireResponseItem{LinkID: item.LinkID}
		for _, answer := range item.Answers {
			if mapped := MapAnswerValueToFHIRAnswer(answer); mapped != nil {
				fhirItem.Answer = append(fhirItem.Answer, *mapped)
			}
		}
		response.Item = append(response.Item, fhirItem)
	}
	return response
}

// OperationOutcomeError describes a failed FHIR call. It prefers the first
// issue's diagnostics and falls back to the HTTP status.
func OperationOutcomeError(statusCode int, body []byte) error {
	var outcome fhir_dto.OperationOutcome
	err := json.Unmarshal(body, &outcome)
	if err == nil && outcome.ResourceType == constvars.ResourceOperationOutcome && len(outcome.Issue) > 0 {
		issue := outcome.Issue[0]
		if issue.Diagnostics != "" {
			return errors.New(issue.Diagnostics)
		}
		if issue.Code != "" {
			return fmt.Errorf("operation outcome %s (status %d)", issue.Code, statusCode)
		}
	}
	return fmt.Errorf("unexpected status %d", statusCode)
}
