package sessionStore

import (
	"context"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/app/models"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type redisSessionStore struct {
	RedisRepository contracts.RedisRepository
	Locker          contracts.LockerService
	Log             *zap.Logger
	ttl             time.Duration
	lockExpiration  time.Duration
	now             func() time.Time
}

// NewRedisSessionStore keeps sessions as JSON under SessionRedisKeyPrefix.
// Update holds a redis lock per session for the whole read-modify-write.
func NewRedisSessionStore(
	redisRepository contracts.RedisRepository,
	locker contracts.LockerService,
	logger *zap.Logger,
	ttl time.Duration,
	lockExpiration time.Duration,
) contracts.SessionStore {
	return &redisSessionStore{
		RedisRepository: redisRepository,
		Locker:          locker,
		Log:             logger,
		ttl:             ttl,
		lockExpiration:  lockExpiration,
		now:             time.Now,
	}
}

func (s *redisSessionStore) Create(ctx context.Context, state *models.SessionState) error {
	stampSession(state, s.now(), s.ttl)
	return s.RedisRepository.Set(ctx, sessionKey(state.SessionID), state, s.ttl)
}

func (s *redisSessionStore) Find(ctx context.Context, sessionID string) (*models.SessionState, error) {
	raw, err := s.RedisRepository.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, exceptions.ErrSessionNotFound(nil, sessionID)
	}

	state := new(models.SessionState)
	err = json.Unmarshal([]byte(raw), state)
	if err != nil {
		return nil, exceptions.ErrServerProcess(err)
	}
	if isExpired(state, s.now()) {
		return nil, exceptions.ErrSessionNotFound(nil, sessionID)
	}
	return state, nil
}

func (s *redisSessionStore) Update(ctx context.Context, sessionID string, fn func(state *models.SessionState) error) (*models.SessionState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	lockKey := constvars.SessionLockRedisKeyPrefix + sessionID

	acquired, lockValue, err := s.Locker.TryLock(ctx, lockKey, s.lockExpiration)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrSessionBusy(nil, sessionID)
	}
	defer func() {
		unlockErr := s.Locker.Unlock(ctx, lockKey, lockValue)
		if unlockErr != nil {
			s.Log.Error("redisSessionStore.Update error releasing session lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingSessionIDKey, sessionID),
				zap.Error(unlockErr),
			)
		}
	}()

	state, err := s.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	err = fn(state)
	if err != nil {
		return nil, err
	}

	stampSession(state, s.now(), s.ttl)
	err = s.RedisRepository.Set(ctx, sessionKey(sessionID), state, s.ttl)
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.RedisRepository.Delete(ctx, sessionKey(sessionID))
}

func sessionKey(sessionID string) string {
	return constvars.SessionRedisKeyPrefix + sessionID
}
