package questionnaireSessions

import (
	"errors"
	"questionnaire-service/internal/app/models"
	responseEngine "questionnaire-service/internal/app/services/core/response_engine"
	"time"
)

var (
	ErrSessionSubmitted = errors.New("session already submitted")
	ErrNotOnLastPage    = errors.New("session is not on the last page")
	ErrPageInvalid      = errors.New("last page has unanswered required items")
)

// Session pairs one response engine with the page cursor of a respondent.
// Pages are the top-level groups of the form. Like the engine, a Session is
// not safe for concurrent use.
type Session struct {
	ID               string
	QuestionnaireID  string
	engine           *responseEngine.ResponseEngine
	currentPageIndex int
	submitted        bool
	createdAt        time.Time
}

func NewSession(sessionID string, form *models.FormDefinition, now time.Time) *Session {
	return &Session{
		ID:              sessionID,
		QuestionnaireID: form.ID,
		engine:          responseEngine.NewResponseEngine(form, now.UTC()),
		createdAt:       now,
	}
}

// RestoreSession rebuilds a session from its stored form. An out of range
// page index is clamped.
func RestoreSession(state *models.SessionState) *Session {
	questionnaire := state.Questionnaire
	session := &Session{
		ID:               state.SessionID,
		QuestionnaireID:  state.QuestionnaireID,
		engine:           responseEngine.RestoreResponseEngine(&questionnaire, state.Response, state.ValidationErrors),
		currentPageIndex: state.CurrentPageIndex,
		submitted:        state.Submitted,
		createdAt:        state.CreatedAt,
	}
	session.clampPageIndex()
	return session
}

// State returns the storable form of the session.
func (s *Session) State() *models.SessionState {
	state := &models.SessionState{
		SessionID:       s.ID,
		QuestionnaireID: s.QuestionnaireID,
		Questionnaire:   *s.engine.Questionnaire(),
		CreatedAt:       s.createdAt,
	}
	s.WriteState(state)
	return state
}

// WriteState copies the mutable parts of the session into state and leaves
// its bookkeeping timestamps alone.
func (s *Session) WriteState(state *models.SessionState) {
	state.Response = s.engine.Response()
	state.ValidationErrors = s.engine.ValidationErrors()
	state.CurrentPageIndex = s.currentPageIndex
	state.Submitted = s.submitted
}

func (s *Session) Engine() *responseEngine.ResponseEngine {
	return s.engine
}

func (s *Session) Questionnaire() *models.FormDefinition {
	return s.engine.Questionnaire()
}

func (s *Session) CurrentPageIndex() int {
	return s.currentPageIndex
}

func (s *Session) PageCount() int {
	return s.engine.Questionnaire().PageCount()
}

func (s *Session) CurrentPage() models.FormItem {
	pages := s.engine.Questionnaire().Pages
	if s.currentPageIndex < 0 || s.currentPageIndex >= len(pages) {
		return models.FormItem{}
	}
	return pages[s.currentPageIndex]
}

// IsCurrentPageValid holds for a page without items too.
func (s *Session) IsCurrentPageValid() bool {
	return s.engine.IsPageValid(s.CurrentPage().Items)
}

func (s *Session) IsOnLastPage() bool {
	return s.currentPageIndex >= s.PageCount()-1
}

func (s *Session) IsSubmitted() bool {
	return s.submitted
}

// NextPage advances when the current page is valid and clears every
// validation flag. Otherwise the page's unanswered required items are flagged
// and the cursor stays. It reports whether the cursor moved; on the last page
// it never does.
func (s *Session) NextPage() bool {
	if s.IsOnLastPage() {
		return false
	}
	items := s.CurrentPage().Items
	if !s.engine.IsPageValid(items) {
		s.engine.MarkValidationErrors(items)
		return false
	}
	s.engine.ClearValidationErrors()
	s.currentPageIndex++
	return true
}

// PreviousPage steps back without looking at answers or flags.
func (s *Session) PreviousPage() bool {
	if s.currentPageIndex == 0 {
		return false
	}
	s.currentPageIndex--
	return true
}

// SubmitGate reports whether the response may be handed off now. A last page
// with unanswered required items gets them flagged.
func (s *Session) SubmitGate() error {
	if s.submitted {
		return ErrSessionSubmitted
	}
	if !s.IsOnLastPage() {
		return ErrNotOnLastPage
	}
	items := s.CurrentPage().Items
	if !s.engine.IsPageValid(items) {
		s.engine.MarkValidationErrors(items)
		return ErrPageInvalid
	}
	return nil
}

// MarkSubmitted completes the response after a successful hand-off.
func (s *Session) MarkSubmitted() {
	s.engine.SetStatus(models.ResponseStatusCompleted)
	s.submitted = true
}

// SubmissionDocument is the snapshot handed to the submitter: the current
// document with status completed. The live document is not changed.
func (s *Session) SubmissionDocument() models.ResponseDocument {
	document := s.engine.Response()
	document.Status = models.ResponseStatusCompleted
	return document
}

// Score returns nil when no weighted answer was given.
func (s *Session) Score() *int {
	score, ok := s.engine.Score()
	if !ok {
		return nil
	}
	return &score
}

// UnansweredRequired lists the linkIds still missing on the current page.
func (s *Session) UnansweredRequired() []string {
	items := s.engine.GetUnansweredRequired(s.CurrentPage().Items)
	linkIDs := make([]string, 0, len(items))
	for _, item := range items {
		linkIDs = append(linkIDs, item.LinkID)
	}
	return linkIDs
}

func (s *Session) clampPageIndex() {
	if s.currentPageIndex < 0 {
		s.currentPageIndex = 0
	}
	if last := s.PageCount() - 1; last >= 0 && s.currentPageIndex > last {
		s.currentPageIndex = last
	}
}
