package constvars

const (
	ResponseUnknown = "unknown"
)

const (
	SuccessStartSession      = "questionnaire session started"
	SuccessFindSession       = "questionnaire session found"
	SuccessUpdateAnswer      = "answer recorded"
	SuccessFindAnswer        = "answer found"
	SuccessNextPage          = "moved to the next page"
	SuccessNextPageBlocked   = "current page has unanswered required questions"
	SuccessPreviousPage      = "moved to the previous page"
	SuccessSubmitResponse    = "questionnaire response submitted"
	SuccessAbandonSession    = "questionnaire session abandoned"
	SuccessFindQuestionnaire = "questionnaire found"
)
