package constvars

const (
	ResourceQuestionnaire         = "Questionnaire"
	ResourceQuestionnaireResponse = "QuestionnaireResponse"
	ResourceOperationOutcome      = "OperationOutcome"
)

const (
	FormSourceQuestionnairePathFormat = "%s/api/questionnaire/%s"
)
