package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_SESSION_ID_KEY           ContextKey = "session_id"
)

const (
	REQUEST_ID_PREFIX = "QSTN_SVC_"
)

const (
	URLParamSessionID       = "session_id"
	URLParamQuestionnaireID = "questionnaire_id"
	URLParamLinkID          = "link_id"
	QueryParamAnswerIndex   = "index"
)

const (
	SessionRedisKeyPrefix       = "questionnaire_session:"
	SessionLockRedisKeyPrefix   = "questionnaire_session_lock:"
	SessionTokenClaimSessionID  = "session_id"
	ArchiveObjectKeyFormat      = "%s/%s.json"
	EventQuestionnaireSubmitted = "questionnaire_response.submitted"
	ReceiptCollection           = "questionnaire_response_receipts"
)

const (
	AnswerYes = "Yes"
	AnswerNo  = "No"
)
