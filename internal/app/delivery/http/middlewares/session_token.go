package middlewares

import (
	"context"
	"net/http"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/utils"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RequireSessionToken admits a request only when its bearer token was issued
// for the session named in the URL.
func (m *Middlewares) RequireSessionToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(constvars.HeaderAuthorization)
		token := strings.TrimSpace(strings.TrimPrefix(header, constvars.AuthorizationBearerPrefix))
		if header == "" || token == "" || token == header {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		sessionID, err := m.SessionTokenManager.VerifySessionToken(r.Context(), token)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		if urlSessionID := chi.URLParam(r, constvars.URLParamSessionID); urlSessionID != sessionID {
			m.Log.Warn("Middlewares.RequireSessionToken session mismatch",
				zap.Any(constvars.LoggingRequestIDKey, r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY)),
				zap.String(constvars.LoggingSessionIDKey, urlSessionID),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenSessionMismatch(nil))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_SESSION_ID_KEY, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
