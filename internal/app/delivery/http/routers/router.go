package routers

import (
	"fmt"
	"questionnaire-service/internal/app/config"
	"questionnaire-service/internal/app/delivery/http/controllers"
	"questionnaire-service/internal/app/delivery/http/middlewares"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	questionnaireController *controllers.QuestionnaireController,
	sessionController *controllers.SessionController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	if internalConfig.App.MaxRequests > 0 {
		router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second))
	}

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.BodyLimit)

	submitLimiter := middlewares.NewSubmitRateLimiter()

	router.Route(routePrefix(internalConfig.App.EndpointPrefix), func(r chi.Router) {
		r.Route(routePrefix(internalConfig.App.Version), func(r chi.Router) {
			r.Route("/questionnaires", func(r chi.Router) {
				attachQuestionnaireRoutes(r, questionnaireController)
			})

			r.Route("/sessions", func(r chi.Router) {
				attachSessionRoutes(r, middlewares, submitLimiter, sessionController)
			})
		})
	})
}

func routePrefix(segment string) string {
	return fmt.Sprintf("/%s", strings.Trim(segment, "/"))
}
