package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yoockh/coldreach/internal/cache"
	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/utils"
)

// SessionService keeps per-browser UI state and composed emails in the cache.
type SessionService interface {
	// Load returns the session for id, starting a fresh one when id is empty or unknown.
	Load(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error

	Email(ctx context.Context, sessionID, jobKey string) (string, bool, error)
	StoreEmail(ctx context.Context, sessionID, jobKey, body string) error
	DropEmails(ctx context.Context, sessionID string, jobKeys ...string) error
}

type sessionService struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewSessionService(c cache.Cache, ttl time.Duration) SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionService{cache: c, ttl: ttl}
}

type cachedEmail struct {
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func sessionKey(id string) string { return cache.Key("session", id) }
func emailKey(id, jobKey string) string { return cache.Key("email", id, jobKey) }

func (s *sessionService) Load(ctx context.Context, id string) (*models.Session, error) {
	const op = "SessionService.Load"

	if id != "" {
		var out models.Session
		hit, err := s.cache.GetJSON(ctx, sessionKey(id), &out)
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "failed to load session", err)
		}
		if hit {
			return &out, nil
		}
	}

	now := time.Now().UTC()
	if id == "" {
		id = uuid.NewString()
	}
	return &models.Session{
		ID:        id,
		Page:      models.PageHome,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *sessionService) Save(ctx context.Context, sess *models.Session) error {
	const op = "SessionService.Save"

	if sess == nil || sess.ID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session id is required", nil)
	}
	sess.UpdatedAt = time.Now().UTC()
	if err := s.cache.SetJSON(ctx, sessionKey(sess.ID), sess, s.ttl); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to save session", err)
	}
	return nil
}

func (s *sessionService) Email(ctx context.Context, sessionID, jobKey string) (string, bool, error) {
	const op = "SessionService.Email"

	var e cachedEmail
	hit, err := s.cache.GetJSON(ctx, emailKey(sessionID, jobKey), &e)
	if err != nil {
		return "", false, utils.E(utils.CodeUnavailable, op, "failed to read email", err)
	}
	return e.Body, hit, nil
}

func (s *sessionService) StoreEmail(ctx context.Context, sessionID, jobKey, body string) error {
	const op = "SessionService.StoreEmail"

	e := cachedEmail{Body: body, CreatedAt: time.Now().UTC()}
	if err := s.cache.SetJSON(ctx, emailKey(sessionID, jobKey), e, s.ttl); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to store email", err)
	}
	return nil
}

func (s *sessionService) DropEmails(ctx context.Context, sessionID string, jobKeys ...string) error {
	const op = "SessionService.DropEmails"

	if len(jobKeys) == 0 {
		return nil
	}
	keys := make([]string, len(jobKeys))
	for i, k := range jobKeys {
		keys[i] = emailKey(sessionID, k)
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to drop emails", err)
	}
	return nil
}
