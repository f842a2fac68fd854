package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"questionnaire-service/internal/app/config"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/app/delivery/http/controllers"
	"questionnaire-service/internal/app/delivery/http/middlewares"
	"questionnaire-service/internal/app/delivery/http/routers"
	"questionnaire-service/internal/app/drivers/database"
	"questionnaire-service/internal/app/drivers/logger"
	"questionnaire-service/internal/app/drivers/messaging"
	"questionnaire-service/internal/app/drivers/storage"
	questionnaireSessions "questionnaire-service/internal/app/services/core/questionnaire_sessions"
	"questionnaire-service/internal/app/services/core/questionnaires"
	"questionnaire-service/internal/app/services/core/submissions"
	questionnaire_responses "questionnaire-service/internal/app/services/fhir_spark/questionnaire_responses"
	questionnaireFhir "questionnaire-service/internal/app/services/fhir_spark/questionnaires"
	"questionnaire-service/internal/app/services/shared/events"
	"questionnaire-service/internal/app/services/shared/expression"
	"questionnaire-service/internal/app/services/shared/formsource"
	"questionnaire-service/internal/app/services/shared/jwtmanager"
	"questionnaire-service/internal/app/services/shared/locker"
	"questionnaire-service/internal/app/services/shared/redis"
	sessionStore "questionnaire-service/internal/app/services/shared/session_store"
	sharedStorage "questionnaire-service/internal/app/services/shared/storage"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Redis:          database.NewRedisClient(driverConfig),
		MongoDB:        database.NewMongoDB(driverConfig),
		Minio:          storage.NewMinio(driverConfig),
		RabbitMQ:       messaging.NewRabbitMQ(driverConfig),
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	err = bootstrapingTheApp(bootstrap)
	if err != nil {
		log.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: bootstrap.Router,
	}

	go func() {
		log.Info("Server started", zap.String("port", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Error("Failed to close drivers", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	cfg := bootstrap.InternalConfig
	log := bootstrap.Logger

	// Session token
	jwtManager, err := jwtmanager.NewJWTManager(cfg, log)
	if err != nil {
		return err
	}

	// Session store
	sessionTTL := time.Duration(cfg.Session.ExpiredTimeInMinutes) * time.Minute
	var store contracts.SessionStore
	if cfg.Session.Store == "redis" && bootstrap.Redis != nil {
		redisRepository := redis.NewRedisRepository(bootstrap.Redis)
		lockService := locker.NewLockService(redisRepository, log)
		store = sessionStore.NewRedisSessionStore(
			redisRepository,
			lockService,
			log,
			sessionTTL,
			time.Duration(cfg.Session.LockExpiredTimeInSeconds)*time.Second,
		)
	} else {
		store = sessionStore.NewMemorySessionStore(sessionTTL)
	}

	// Questionnaire
	var formSource contracts.FormSource
	if cfg.FormSource.Directory != "" {
		formSource = formsource.NewFileFormSource(cfg.FormSource.Directory, log)
	} else {
		formSource = questionnaireFhir.NewQuestionnaireFhirClient(
			cfg.FormSource.BaseUrl,
			time.Duration(cfg.FormSource.HTTPTimeoutInSeconds)*time.Second,
			log,
		)
	}
	questionnaireUsecase := questionnaires.NewQuestionnaireUsecase(formSource, log)

	// Submission
	submissionUsecase, err := newSubmissionUsecase(bootstrap)
	if err != nil {
		return err
	}

	// Session
	sessionUsecase := questionnaireSessions.NewQuestionnaireSessionUsecase(
		questionnaireUsecase,
		submissionUsecase,
		store,
		jwtManager,
		log,
	)

	routers.SetupRoutes(
		bootstrap.Router,
		cfg,
		middlewares.NewMiddlewares(log, jwtManager, cfg),
		controllers.NewQuestionnaireController(log, questionnaireUsecase),
		controllers.NewSessionController(log, sessionUsecase),
	)
	return nil
}

// newSubmissionUsecase wires the optional sinks whose drivers are connected.
func newSubmissionUsecase(bootstrap *config.Bootstrap) (contracts.SubmissionUsecase, error) {
	cfg := bootstrap.InternalConfig
	log := bootstrap.Logger

	walletSubmitter := questionnaire_responses.NewWalletSubmitter(
		cfg.Wallet.SubmitUrl,
		cfg.Wallet.AppID,
		cfg.Wallet.APIKey,
		time.Duration(cfg.Wallet.HTTPTimeoutInSeconds)*time.Second,
		log,
	)

	var archive contracts.Storage
	if bootstrap.Minio != nil {
		archive = sharedStorage.NewMinioStorage(bootstrap.Minio)
	}

	var publisher contracts.EventPublisher
	if bootstrap.RabbitMQ != nil {
		var err error
		publisher, err = events.NewRabbitMQPublisher(bootstrap.RabbitMQ, cfg.Submission.EventQueue, log)
		if err != nil {
			return nil, err
		}
	}

	var receiptRepository contracts.ReceiptRepository
	if bootstrap.MongoDB != nil {
		receiptRepository = submissions.NewReceiptMongoRepository(bootstrap.MongoDB, cfg.Submission.ReceiptDBName)
	}

	return submissions.NewSubmissionUsecase(
		walletSubmitter,
		expression.NewFHIRPathEvaluator(log),
		archive,
		publisher,
		receiptRepository,
		cfg,
		log,
	), nil
}
