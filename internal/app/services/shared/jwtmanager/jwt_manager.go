package jwtmanager

import (
	"context"
	"errors"
	"fmt"
	"questionnaire-service/internal/app/config"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

var (
	errSecretEmpty       = errors.New("JWT_SECRET is empty")
	errSessionIDRequired = errors.New("session id is required")
	errSessionIDClaim    = errors.New("token has no session_id claim")
)

// JWTManager issues and verifies the HS256 tokens that bind an HTTP client
// to one questionnaire session.
type JWTManager struct {
	log    *zap.Logger
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(cfg *config.InternalConfig, log *zap.Logger) (*JWTManager, error) {
	secret := strings.TrimSpace(cfg.JWT.Secret)
	if secret == "" {
		return nil, errSecretEmpty
	}

	ttl := time.Duration(cfg.JWT.ExpTimeInHour) * time.Hour
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &JWTManager{
		log:    log,
		secret: []byte(secret),
		issuer: cfg.JWT.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (j *JWTManager) CreateSessionToken(ctx context.Context, sessionID string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	j.log.Info("JWTManager.CreateSessionToken called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	if strings.TrimSpace(sessionID) == "" {
		return "", exceptions.ErrTokenGenerate(errSessionIDRequired)
	}

	now := j.now().UTC()
	claims := jwt.MapClaims{
		constvars.SessionTokenClaimSessionID: sessionID,
		"iss":                                j.issuer,
		"iat":                                now.Unix(),
		"nbf":                                now.Unix(),
		"exp":                                now.Add(j.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", exceptions.ErrTokenGenerate(err)
	}
	return signed, nil
}

// VerifySessionToken checks signature and expiry and returns the session id
// the token was issued for.
func (j *JWTManager) VerifySessionToken(ctx context.Context, token string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if strings.TrimSpace(token) == "" {
		return "", exceptions.ErrTokenMissing(nil)
	}

	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%s: %v", constvars.ErrDevAuthSigningMethod, t.Header["alg"])
		}
		return j.secret, nil
	}

	parsed, err := jwt.Parse(token, keyFunc)
	if err != nil || !parsed.Valid {
		j.log.Info("JWTManager.VerifySessionToken rejected token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrTokenInvalidOrExpired(err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", exceptions.ErrTokenInvalidOrExpired(errSessionIDClaim)
	}
	sessionID, _ := claims[constvars.SessionTokenClaimSessionID].(string)
	if sessionID == "" {
		return "", exceptions.ErrTokenInvalidOrExpired(errSessionIDClaim)
	}
	return sessionID, nil
}
