package config

import (
	"questionnaire-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", ""),
			Username: utils.GetEnvString("MONGODB_USERNAME", ""),
			Password: utils.GetEnvString("MONGODB_PASSWORD", ""),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", ""),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", ""),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", ""),
			Username: utils.GetEnvString("MINIO_USERNAME", ""),
			Password: utils.GetEnvString("MINIO_PASSWORD", ""),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "UTC"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "/api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 20),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 1),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 1),
		},
		Session: AppSession{
			Store:                    utils.GetEnvString("SESSION_STORE", "memory"),
			ExpiredTimeInMinutes:     utils.GetEnvInt("SESSION_EXPIRED_TIME_IN_MINUTES", 60),
			LockExpiredTimeInSeconds: utils.GetEnvInt("SESSION_LOCK_EXPIRED_TIME_IN_SECONDS", 30),
		},
		FormSource: AppFormSource{
			BaseUrl:              utils.GetEnvString("FORM_SOURCE_BASE_URL", "http://localhost:3000"),
			Directory:            utils.GetEnvString("FORM_SOURCE_DIRECTORY", ""),
			HTTPTimeoutInSeconds: utils.GetEnvInt("FORM_SOURCE_HTTP_TIMEOUT_IN_SECONDS", 10),
		},
		Wallet: AppWallet{
			SubmitUrl:            utils.GetEnvString("WALLET_SUBMIT_URL", "http://localhost:3001/api/questionnaire-response"),
			AppID:                utils.GetEnvString("WALLET_APP_ID", ""),
			APIKey:               utils.GetEnvString("WALLET_API_KEY", ""),
			HTTPTimeoutInSeconds: utils.GetEnvInt("WALLET_HTTP_TIMEOUT_IN_SECONDS", 10),
		},
		JWT: AppJWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "questionnaire-session-secret"),
			Issuer:        utils.GetEnvString("JWT_ISSUER", "questionnaire-service"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 1),
		},
		Submission: AppSubmission{
			Constraints:               utils.GetEnvList("SUBMISSION_CONSTRAINTS", ";"),
			ArchiveBucketName:         utils.GetEnvString("SUBMISSION_ARCHIVE_BUCKET_NAME", "questionnaire-responses"),
			EventQueue:                utils.GetEnvString("SUBMISSION_EVENT_QUEUE", "questionnaire_response.submitted"),
			ReceiptDBName:             utils.GetEnvString("SUBMISSION_RECEIPT_DB_NAME", "questionnaire"),
			RateLimitPerMinute:        utils.GetEnvInt("SUBMISSION_RATE_LIMIT_PER_MINUTE", 5),
			RateLimitBlockTimeMinutes: utils.GetEnvInt("SUBMISSION_RATE_LIMIT_BLOCK_TIME_IN_MINUTES", 1),
		},
	}
}
