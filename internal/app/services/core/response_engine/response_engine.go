package responseEngine

import (
	"errors"
	"questionnaire-service/internal/app/models"
	"sort"
	"time"
)

var ErrAnswerIndexOutOfRange = errors.New("answer index out of range")

// ResponseEngine owns the response document and validation error set of a
// single session. It is not safe for concurrent use; callers serialize
// mutations per session.
type ResponseEngine struct {
	questionnaire    *models.FormDefinition
	response         models.ResponseDocument
	itemIndex        map[string]int
	validationErrors map[string]struct{}
}

// NewResponseEngine starts an empty in-progress response for the form.
func NewResponseEngine(questionnaire *models.FormDefinition, authored time.Time) *ResponseEngine {
	return &ResponseEngine{
		questionnaire: questionnaire,
		response: models.ResponseDocument{
			Questionnaire: questionnaire.ID,
			Status:        models.ResponseStatusInProgress,
			Authored:      authored,
			Items:         []models.ResponseItem{},
		},
		itemIndex:        make(map[string]int),
		validationErrors: make(map[string]struct{}),
	}
}

// RestoreResponseEngine rebuilds an engine from a stored document and error set.
func RestoreResponseEngine(questionnaire *models.FormDefinition, response models.ResponseDocument, validationErrors []string) *ResponseEngine {
	engine := &ResponseEngine{
		questionnaire:    questionnaire,
		response:         response.Clone(),
		itemIndex:        make(map[string]int, len(response.Items)),
		validationErrors: make(map[string]struct{}, len(validationErrors)),
	}
	if engine.response.Items == nil {
		engine.response.Items = []models.ResponseItem{}
	}
	for i, item := range engine.response.Items {
		if _, exists := engine.itemIndex[item.LinkID]; !exists {
			engine.itemIndex[item.LinkID] = i
		}
	}
	for _, linkID := range validationErrors {
		engine.validationErrors[linkID] = struct{}{}
	}
	return engine
}

func (e *ResponseEngine) Questionnaire() *models.FormDefinition {
	return e.questionnaire
}

// UpsertAnswer replaces the whole answer slot of linkID with a single value,
// appending a new item when none exists. Unknown linkIds are stored as-is.
// The validation flag for linkID is always cleared.
func (e *ResponseEngine) UpsertAnswer(linkID string, value models.AnswerValue) {
	value = models.CloneAnswer(value)
	if i, ok := e.itemIndex[linkID]; ok {
		e.response.Items[i].Answers = []models.AnswerValue{value}
	} else {
		e.appendItem(linkID, []models.AnswerValue{value})
	}
	delete(e.validationErrors, linkID)
}

// UpsertAnswerAt writes one answer position. index equal to the current
// answer count appends; anything further out is rejected without mutation.
func (e *ResponseEngine) UpsertAnswerAt(linkID string, index int, value models.AnswerValue) error {
	value = models.CloneAnswer(value)
	i, ok := e.itemIndex[linkID]
	count := 0
	if ok {
		count = len(e.response.Items[i].Answers)
	}
	if index < 0 || index > count {
		return ErrAnswerIndexOutOfRange
	}

	switch {
	case !ok:
		e.appendItem(linkID, []models.AnswerValue{value})
	case index == count:
		e.response.Items[i].Answers = append(e.response.Items[i].Answers, value)
	default:
		e.response.Items[i].Answers[index] = value
	}
	delete(e.validationErrors, linkID)
	return nil
}

func (e *ResponseEngine) appendItem(linkID string, answers []models.AnswerValue) {
	e.response.Items = append(e.response.Items, models.ResponseItem{
		LinkID:  linkID,
		Answers: answers,
	})
	e.itemIndex[linkID] = len(e.response.Items) - 1
}

// GetAnswer returns the first answer recorded for linkID.
func (e *ResponseEngine) GetAnswer(linkID string) (models.AnswerValue, bool) {
	return e.GetAnswerAt(linkID, 0)
}

func (e *ResponseEngine) GetAnswerAt(linkID string, index int) (models.AnswerValue, bool) {
	i, ok := e.itemIndex[linkID]
	if !ok {
		return nil, false
	}
	answers := e.response.Items[i].Answers
	if index < 0 || index >= len(answers) {
		return nil, false
	}
	return models.CloneAnswer(answers[index]), true
}

// GetRequiredItems filters the given items to those marked required. It does
// not descend into nested groups.
func (e *ResponseEngine) GetRequiredItems(pageItems []models.FormItem) []models.FormItem {
	required := make([]models.FormItem, 0, len(pageItems))
	for _, item := range pageItems {
		if item.Required {
			required = append(required, item)
		}
	}
	return required
}

func (e *ResponseEngine) isAnswered(linkID string) bool {
	answer, ok := e.GetAnswer(linkID)
	return ok && models.IsMeaningful(answer)
}

// IsPageValid reports whether every required item on the page has a
// meaningful first answer. A page without required items is valid.
func (e *ResponseEngine) IsPageValid(pageItems []models.FormItem) bool {
	for _, item := range e.GetRequiredItems(pageItems) {
		if !e.isAnswered(item.LinkID) {
			return false
		}
	}
	return true
}

// GetUnansweredRequired returns the required items that fail the answered
// check, in page order.
func (e *ResponseEngine) GetUnansweredRequired(pageItems []models.FormItem) []models.FormItem {
	unanswered := make([]models.FormItem, 0)
	for _, item := range e.GetRequiredItems(pageItems) {
		if !e.isAnswered(item.LinkID) {
			unanswered = append(unanswered, item)
		}
	}
	return unanswered
}

// MarkValidationErrors replaces the error set with the unanswered required
// items of the page.
func (e *ResponseEngine) MarkValidationErrors(pageItems []models.FormItem) {
	unanswered := e.GetUnansweredRequired(pageItems)
	e.validationErrors = make(map[string]struct{}, len(unanswered))
	for _, item := range unanswered {
		e.validationErrors[item.LinkID] = struct{}{}
	}
}

func (e *ResponseEngine) ClearValidationErrors() {
	e.validationErrors = make(map[string]struct{})
}

func (e *ResponseEngine) HasValidationError(linkID string) bool {
	_, ok := e.validationErrors[linkID]
	return ok
}

// ValidationErrors returns the flagged linkIds sorted.
func (e *ResponseEngine) ValidationErrors() []string {
	linkIDs := make([]string, 0, len(e.validationErrors))
	for linkID := range e.validationErrors {
		linkIDs = append(linkIDs, linkID)
	}
	sort.Strings(linkIDs)
	return linkIDs
}

// Response returns a deep copy of the current document.
func (e *ResponseEngine) Response() models.ResponseDocument {
	return e.response.Clone()
}

// SetStatus is reserved for the submission flow. Answer operations never
// touch the status.
func (e *ResponseEngine) SetStatus(status models.ResponseStatus) {
	e.response.Status = status
}

// Score sums the weights of coding answers that carry one. The second result
// is false when no weighted answer was recorded.
func (e *ResponseEngine) Score() (int, bool) {
	total := 0
	scored := false
	for _, item := range e.response.Items {
		for _, answer := range item.Answers {
			coding, ok := answer.(models.CodingAnswer)
			if !ok || coding.Weight == nil {
				continue
			}
			total += *coding.Weight
			scored = true
		}
	}
	return total, scored
}
