package routers

import (
	"questionnaire-service/internal/app/delivery/http/controllers"
	"questionnaire-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachSessionRoutes(router chi.Router, middlewares *middlewares.Middlewares, submitLimiter *middlewares.RateLimiter, sessionController *controllers.SessionController) {
	router.Post("/", sessionController.StartSession)

	router.Route("/{session_id}", func(r chi.Router) {
		r.Use(middlewares.RequireSessionToken)

		r.Get("/", sessionController.FindSession)
		r.Delete("/", sessionController.AbandonSession)
		r.Put("/answers/{link_id}", sessionController.UpdateAnswer)
		r.Get("/answers/{link_id}", sessionController.FindAnswer)
		r.Post("/pages/next", sessionController.NextPage)
		r.Post("/pages/previous", sessionController.PreviousPage)
		r.With(submitLimiter.Limit).Post("/submit", sessionController.SubmitSession)
	})
}
