package middlewares

import (
	"questionnaire-service/internal/app/config"
	"questionnaire-service/internal/app/contracts"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log                 *zap.Logger
	SessionTokenManager contracts.SessionTokenManager
	InternalConfig      *config.InternalConfig
}

func NewMiddlewares(logger *zap.Logger, sessionTokenManager contracts.SessionTokenManager, internalConfig *config.InternalConfig) *Middlewares {
	return &Middlewares{
		Log:                 logger,
		SessionTokenManager: sessionTokenManager,
		InternalConfig:      internalConfig,
	}
}
