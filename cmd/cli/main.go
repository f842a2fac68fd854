package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"questionnaire-service/internal/app/config"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/app/delivery/tui"
	"questionnaire-service/internal/app/drivers/database"
	"questionnaire-service/internal/app/drivers/logger"
	"questionnaire-service/internal/app/drivers/messaging"
	"questionnaire-service/internal/app/drivers/storage"
	"questionnaire-service/internal/app/services/core/questionnaires"
	"questionnaire-service/internal/app/services/core/submissions"
	questionnaire_responses "questionnaire-service/internal/app/services/fhir_spark/questionnaire_responses"
	questionnaireFhir "questionnaire-service/internal/app/services/fhir_spark/questionnaires"
	"questionnaire-service/internal/app/services/shared/events"
	"questionnaire-service/internal/app/services/shared/expression"
	"questionnaire-service/internal/app/services/shared/formsource"
	sharedStorage "questionnaire-service/internal/app/services/shared/storage"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	directory := flag.String("file", "", "directory holding questionnaire JSON files")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-file dir] <questionnaire-id>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	questionnaireID := flag.Arg(0)

	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	if *directory != "" {
		internalConfig.FormSource.Directory = *directory
	}

	log := logger.NewLogrusLogger(driverConfig, internalConfig)

	// Shared services log through zap; their lines go to the same file.
	logWriter := log.Writer()
	defer logWriter.Close()
	zapLogger := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(logWriter),
		zap.InfoLevel,
	))

	bootstrap := &config.Bootstrap{
		MongoDB:        database.NewMongoDB(driverConfig),
		Minio:          storage.NewMinio(driverConfig),
		RabbitMQ:       messaging.NewRabbitMQ(driverConfig),
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var formSource contracts.FormSource
	if internalConfig.FormSource.Directory != "" {
		formSource = formsource.NewFileFormSource(internalConfig.FormSource.Directory, zapLogger)
	} else {
		formSource = questionnaireFhir.NewQuestionnaireFhirClient(
			internalConfig.FormSource.BaseUrl,
			time.Duration(internalConfig.FormSource.HTTPTimeoutInSeconds)*time.Second,
			zapLogger,
		)
	}

	submissionUsecase, err := newSubmissionUsecase(bootstrap)
	if err != nil {
		log.WithError(err).Fatal("Failed to wire submission")
	}

	runner := tui.NewRunner(
		tui.NewSurveyDriver(),
		questionnaires.NewQuestionnaireUsecase(formSource, zapLogger),
		submissionUsecase,
		log,
	)

	_, err = runner.Run(ctx, questionnaireID)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := bootstrap.Shutdown(shutdownCtx); shutdownErr != nil {
		log.WithError(shutdownErr).Error("Failed to close drivers")
	}

	switch {
	case errors.Is(err, tui.ErrAborted):
		fmt.Fprintln(os.Stderr, "Aborted.")
		os.Exit(130)
	case err != nil:
		os.Exit(1)
	}
}

func newSubmissionUsecase(bootstrap *config.Bootstrap) (contracts.SubmissionUsecase, error) {
	cfg := bootstrap.InternalConfig
	log := bootstrap.Logger

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
		questionnaire_responses.NewWalletSubmitter(
			cfg.Wallet.SubmitUrl,
			cfg.Wallet.AppID,
			cfg.Wallet.APIKey,
			time.Duration(cfg.Wallet.HTTPTimeoutInSeconds)*time.Second,
			log,
		),
		expression.NewFHIRPathEvaluator(log),
		archive,
		publisher,
		receiptRepository,
		cfg,
		log,
	), nil
}
