package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s characters long",
	"max":      "maximum at %s characters long",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"oneof":    "must be one of [%s]",
	"uuid":     "must be a valid UUID",
	"link_id":  "must be a valid linkId",
	"excludes": "must not contain %s",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":      true,
	"max":      true,
	"gte":      true,
	"lte":      true,
	"oneof":    true,
	"excludes": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "cannot process request, please check again your request"
	ErrClientSomethingWrongWithApplication = "something wrong with the application, please try again later"
	ErrClientServerLongRespond             = "server took too long to respond"
	ErrClientNotAuthorized                 = "you are not authorized to access this resource"
	ErrClientSessionNotFound               = "questionnaire session not found or already expired"
	ErrClientSessionBusy                   = "questionnaire session is being updated, please retry"
	ErrClientSessionAlreadySubmitted       = "questionnaire response has already been submitted"
	ErrClientQuestionnaireLoad             = "Failed to load questionnaire"
	ErrClientQuestionnaireEmpty            = "No questionnaire data available"
	ErrClientNotOnLastPage                 = "questionnaire can only be submitted from the last page"
	ErrClientPageInvalid                   = "please answer all required questions before continuing"
	ErrClientSubmitFailed                  = "failed to submit questionnaire response, please try again"
	ErrClientConstraintFailed              = "questionnaire response does not satisfy the submission rules"
	ErrClientAnswerIndexOutOfRange         = "answer index is out of range"
	ErrClientTooManyRequests               = "too many requests, you are blocked temporarily"
)

// Error messages for developers
const (
	ErrDevValidationFailed           = "validation failed"
	ErrDevInvalidInput               = "invalid input"
	ErrDevCannotParseJSON            = "cannot parse JSON"
	ErrDevCannotMarshalJSON          = "cannot marshal JSON"
	ErrDevCannotParseYAML            = "cannot parse YAML"
	ErrDevReadFile                   = "cannot read file %s"
	ErrDevServerDeadlineExceeded     = "server deadline exceeded"
	ErrDevServerProcess              = "server failed to process the request"
	ErrDevMissingRequestID           = "request id missing from context"
	ErrDevURLParamValidationFailed   = "url param %s validation failed"
	ErrDevAuthTokenMissing           = "session token missing"
	ErrDevAuthTokenInvalidOrExpired  = "session token invalid or expired"
	ErrDevAuthTokenSessionMismatch   = "session token does not belong to the requested session"
	ErrDevAuthGenerateToken          = "failed to generate session token"
	ErrDevAuthSigningMethod          = "unexpected signing method"
	ErrDevSessionNotFound            = "session %s not found"
	ErrDevSessionBusy                = "session %s is locked by another request"
	ErrDevSessionAlreadySubmitted    = "session %s already submitted"
	ErrDevQuestionnaireMalformed     = "questionnaire %s is malformed"
	ErrDevQuestionnaireNoPages       = "questionnaire %s has no pages"
	ErrDevNotOnLastPage              = "session %s is on page %d of %d"
	ErrDevPageInvalid                = "session %s has unanswered required items on page %d"
	ErrDevAnswerIndexOutOfRange      = "answer index %d out of range for %s"
	ErrDevUnsupportedAnswer          = "answer for %s carries no supported value"
	ErrDevConstraintFailed           = "submission constraint failed: %s"
	ErrDevConstraintInvalid          = "submission constraint invalid: %s"
	ErrDevCreateHTTPRequest          = "failed to create HTTP request"
	ErrDevSendHTTPRequest            = "failed to send HTTP request"
	ErrDevReadBody                   = "failed to read response body"
	ErrDevFHIRGetResource            = "failed to get FHIR %s resource"
	ErrDevFHIRCreateResource         = "failed to create FHIR %s resource"
	ErrDevRedisGetData               = "failed to get data from redis"
	ErrDevRedisSetData               = "failed to set data to redis"
	ErrDevRedisDeleteData            = "failed to delete data from redis"
	ErrDevRedisUnlock                = "failed to release redis lock"
	ErrDevDBFailedToInsertDocument   = "failed to insert document into database"
	ErrDevMinioFailedToCreateObject  = "failed to create object in bucket %s"
	ErrDevRabbitMQPublishMessage     = "failed to publish message to queue %s"
)
