package routers

import (
	"questionnaire-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachQuestionnaireRoutes(router chi.Router, questionnaireController *controllers.QuestionnaireController) {
	router.Get("/{questionnaire_id}", questionnaireController.FindQuestionnaireByID)
}
