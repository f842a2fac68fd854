package tui

import (
	"context"
	"errors"
	"fmt"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/app/models"
	questionnaireSessions "questionnaire-service/internal/app/services/core/questionnaire_sessions"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/utils"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	actionNext     = "Next"
	actionPrevious = "Previous"
	actionSubmit   = "Submit"
)

const (
	layoutDate = "2006-01-02"
	layoutTime = "15:04:05"
)

// Runner walks one respondent through a questionnaire in the terminal. It
// drives the same Session and submission usecase as the HTTP service.
type Runner struct {
	Driver               PromptDriver
	QuestionnaireUsecase contracts.QuestionnaireUsecase
	SubmissionUsecase    contracts.SubmissionUsecase
	Log                  *logrus.Logger
	now                  func() time.Time
}

func NewRunner(driver PromptDriver, questionnaireUsecase contracts.QuestionnaireUsecase, submissionUsecase contracts.SubmissionUsecase, logger *logrus.Logger) *Runner {
	return &Runner{
		Driver:               driver,
		QuestionnaireUsecase: questionnaireUsecase,
		SubmissionUsecase:    submissionUsecase,
		Log:                  logger,
		now:                  time.Now,
	}
}

// Run loads the form and loops over pages until the response is submitted.
// An interrupted prompt returns ErrAborted and the session is discarded.
func (r *Runner) Run(ctx context.Context, questionnaireID string) (*models.SubmissionReceipt, error) {
	r.Driver.Info("Loading questionnaire...")
	form, err := r.QuestionnaireUsecase.LoadFormDefinition(ctx, questionnaireID)
	if err != nil {
		r.Log.WithError(err).WithField(constvars.LoggingQuestionnaireIDKey, questionnaireID).Error("questionnaire load failed")
		r.Driver.Info(clientMessage(err))
		return nil, err
	}

	session := questionnaireSessions.NewSession(utils.GenerateSessionID(), form, r.now())
	r.Log.WithFields(logrus.Fields{
		constvars.LoggingSessionIDKey:       session.ID,
		constvars.LoggingQuestionnaireIDKey: form.ID,
		constvars.LoggingPageCountKey:       session.PageCount(),
	}).Info("questionnaire session started")

	if form.Title != "" {
		r.Driver.Info(form.Title)
	}

	for {
		page := session.CurrentPage()
		r.Driver.Info(fmt.Sprintf("Page %d of %d %s", session.CurrentPageIndex()+1, session.PageCount(), page.Text))

		for _, item := range page.Items {
			err := r.askItem(session, item)
			if err != nil {
				return nil, r.abort(session, err)
			}
		}

		action, err := r.askAction(session)
		if err != nil {
			return nil, r.abort(session, err)
		}

		switch action {
		case actionNext:
			if !session.NextPage() {
				r.Driver.Info("Please answer the required questions: " + strings.Join(session.Engine().ValidationErrors(), ", "))
			}
		case actionPrevious:
			session.PreviousPage()
		case actionSubmit:
			receipt, submitted := r.submit(ctx, session)
			if submitted {
				return receipt, nil
			}
		}
	}
}

func (r *Runner) askAction(session *questionnaireSessions.Session) (string, error) {
	options := make([]string, 0, 2)
	if session.CurrentPageIndex() > 0 {
		options = append(options, actionPrevious)
	}
	if session.IsOnLastPage() {
		options = append(options, actionSubmit)
	} else {
		options = append(options, actionNext)
	}

	index, err := r.Driver.Select("What next?", options, options[len(options)-1])
	if err != nil {
		return "", err
	}
	return options[index], nil
}

// submit reports whether the response was accepted. Refusals and failures
// are shown and leave the session as it was.
func (r *Runner) submit(ctx context.Context, session *questionnaireSessions.Session) (*models.SubmissionReceipt, bool) {
	err := session.SubmitGate()
	if err != nil {
		if errors.Is(err, questionnaireSessions.ErrPageInvalid) {
			r.Driver.Info("Please answer the required questions: " + strings.Join(session.Engine().ValidationErrors(), ", "))
		} else {
			r.Driver.Info(err.Error())
		}
		return nil, false
	}

	receipt, err := r.SubmissionUsecase.Submit(ctx, session.ID, session.SubmissionDocument(), session.Score())
	if err != nil {
		r.Log.WithError(err).WithField(constvars.LoggingSessionIDKey, session.ID).Error("questionnaire submission failed")
		r.Driver.Info("Submission failed: " + clientMessage(err))
		return nil, false
	}

	session.MarkSubmitted()
	r.Log.WithFields(logrus.Fields{
		constvars.LoggingSessionIDKey: session.ID,
		constvars.LoggingDigestKey:    receipt.Digest,
	}).Info("questionnaire response submitted")

	r.Driver.Info("Response submitted.")
	if score := session.Score(); score != nil {
		r.Driver.Info(fmt.Sprintf("Score: %d", *score))
	}
	return receipt, true
}

func (r *Runner) abort(session *questionnaireSessions.Session, err error) error {
	if errors.Is(err, ErrAborted) {
		r.Log.WithField(constvars.LoggingSessionIDKey, session.ID).Info("questionnaire session discarded")
	}
	return err
}

func (r *Runner) askItem(session *questionnaireSessions.Session, item models.FormItem) error {
	engine := session.Engine()
	label := itemLabel(item, engine.HasValidationError(item.LinkID))
	current, _ := engine.GetAnswer(item.LinkID)

	switch item.Type {
	case models.ItemTypeGroup:
		if item.Text != "" {
			r.Driver.Info(item.Text)
		}
		for _, child := range item.Items {
			err := r.askItem(session, child)
			if err != nil {
				return err
			}
		}
		return nil

	case models.ItemTypeDisplay:
		r.Driver.Info(item.Text)
		return nil

	case models.ItemTypeChoice, models.ItemTypeOpenChoice:
		if len(item.AnswerOptions) == 0 {
			r.Driver.Info(label)
			return nil
		}
		options := make([]string, len(item.AnswerOptions))
		defaultOption := ""
		for i, option := range item.AnswerOptions {
			options[i] = option.Display
			if coding, ok := current.(models.CodingAnswer); ok && coding.Code == option.Code {
				defaultOption = option.Display
			}
		}
		index, err := r.Driver.Select(label, options, defaultOption)
		if err != nil {
			return err
		}
		engine.UpsertAnswer(item.LinkID, item.AnswerOptions[index].Answer())
		return nil

	case models.ItemTypeBoolean:
		defaultOption := ""
		if answer, ok := current.(models.BooleanAnswer); ok {
			defaultOption = constvars.AnswerNo
			if answer.Value {
				defaultOption = constvars.AnswerYes
			}
		}
		index, err := r.Driver.Select(label, []string{constvars.AnswerYes, constvars.AnswerNo}, defaultOption)
		if err != nil {
			return err
		}
		engine.UpsertAnswer(item.LinkID, models.BooleanAnswer{Value: index == 0})
		return nil

	case models.ItemTypeText:
		value, err := r.Driver.Multiline(label, textValue(current))
		if err != nil {
			return err
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return nil
		}
		engine.UpsertAnswer(item.LinkID, models.StringAnswer{Value: truncate(value, item.MaxLength)})
		return nil

	case models.ItemTypeInteger, models.ItemTypeDecimal, models.ItemTypeString, models.ItemTypeURL,
		models.ItemTypeDate, models.ItemTypeDateTime, models.ItemTypeTime:
		value, err := r.Driver.Input(label, textValue(current), inputValidator(item))
		if err != nil {
			return err
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return nil
		}
		answer, err := parseInput(item.Type, value)
		if err != nil {
			r.Driver.Info(err.Error())
			return nil
		}
		engine.UpsertAnswer(item.LinkID, answer)
		return nil

	default:
		r.Driver.Info(fmt.Sprintf("Unsupported question type: %s", item.Type))
		return nil
	}
}

func itemLabel(item models.FormItem, flagged bool) string {
	label := item.Text
	if item.Prefix != "" {
		label = item.Prefix + " " + label
	}
	if label == "" {
		label = item.LinkID
	}
	if item.Required {
		label += " *"
	}
	if flagged {
		label += " (required)"
	}
	return label
}

func inputValidator(item models.FormItem) func(string) error {
	return func(value string) error {
		value = strings.TrimSpace(value)
		if value == "" {
			return nil
		}
		if item.MaxLength > 0 && len([]rune(value)) > item.MaxLength {
			return fmt.Errorf("at most %d characters", item.MaxLength)
		}
		_, err := parseInput(item.Type, value)
		return err
	}
}

func parseInput(itemType models.ItemType, value string) (models.AnswerValue, error) {
	switch itemType {
	case models.ItemTypeInteger:
		number, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.New("please enter a whole number")
		}
		return models.IntegerAnswer{Value: number}, nil
	case models.ItemTypeDecimal:
		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errors.New("please enter a number")
		}
		return models.DecimalAnswer{Value: number}, nil
	case models.ItemTypeDate:
		if _, err := time.Parse(layoutDate, value); err != nil {
			return nil, errors.New("please enter a date as YYYY-MM-DD")
		}
		return models.DateAnswer{Value: value}, nil
	case models.ItemTypeDateTime:
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return nil, errors.New("please enter a date and time as YYYY-MM-DDThh:mm:ssZ")
		}
		return models.DateTimeAnswer{Value: value}, nil
	case models.ItemTypeTime:
		if _, err := time.Parse(layoutTime, value); err != nil {
			return nil, errors.New("please enter a time as hh:mm:ss")
		}
		return models.TimeAnswer{Value: value}, nil
	default:
		return models.StringAnswer{Value: value}, nil
	}
}

func textValue(answer models.AnswerValue) string {
	switch v := answer.(type) {
	case models.StringAnswer:
		return v.Value
	case models.IntegerAnswer:
		return strconv.Itoa(v.Value)
	case models.DecimalAnswer:
		return strconv.FormatFloat(v.Value, 'f', -1, 64)
	case models.DateAnswer:
		return v.Value
	case models.DateTimeAnswer:
		return v.Value
	case models.TimeAnswer:
		return v.Value
	default:
		return ""
	}
}

func truncate(value string, maxLength int) string {
	runes := []rune(value)
	if maxLength <= 0 || len(runes) <= maxLength {
		return value
	}
	return string(runes[:maxLength])
}

func clientMessage(err error) string {
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		return customErr.ClientMessage
	}
	return err.Error()
}
