package constvars

const (
	LoggingRequestIDKey         = "request_id"
	LoggingSessionIDKey         = "session_id"
	LoggingQuestionnaireIDKey   = "questionnaire_id"
	LoggingLinkIDKey            = "link_id"
	LoggingPageIndexKey         = "page_index"
	LoggingPageCountKey         = "page_count"
	LoggingValidationErrorsKey  = "validation_errors"
	LoggingDurationKey          = "duration"
	LoggingSuccessKey           = "success"
	LoggingMethodKey            = "method"
	LoggingEndpointKey          = "endpoint"
	LoggingRemoteAddrKey        = "remote_addr"
	LoggingUserAgentKey         = "user_agent"
	LoggingStatusCodeKey        = "status_code"
	LoggingRedisKey             = "redis_key"
	LoggingLockExpirationKey    = "lock_expiration"
	LoggingLockStoredValueKey   = "lock_stored_value"
	LoggingLockExpectedValueKey = "lock_expected_value"
	LoggingBucketKey            = "bucket"
	LoggingObjectKey            = "object"
	LoggingQueueKey             = "queue"
	LoggingDigestKey            = "digest"
	LoggingExpressionKey        = "expression"
	LoggingURLKey               = "url"
)
