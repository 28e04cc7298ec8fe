package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/quillnote/quillnote/internal/model"
	"github.com/quillnote/quillnote/internal/session"
)

// sessionKeyPrefix is the Redis key prefix for sessions.
const sessionKeyPrefix = "session:"

// cachedSession is the JSON form of a session stored in Redis.
type cachedSession struct {
	IdentityID string     `json:"identity_id"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// SessionStore keeps sessions in Redis. Session expiry maps to key expiry.
type SessionStore struct {
	cache *Cache
	now   func() time.Time
}

var _ session.Store = (*SessionStore)(nil)

// Sessions returns the Redis session store.
func (c *Cache) Sessions() *SessionStore {
	return &SessionStore{cache: c, now: time.Now}
}

func sessionKey(tokenHash string) string {
	return sessionKeyPrefix + tokenHash
}

// keyTTL converts a session expiry into a Redis key TTL. Zero means the key
// never expires. ok is false when the session is already expired.
func keyTTL(s *model.Session, now time.Time) (ttl time.Duration, ok bool) {
	if s.ExpiresAt == nil {
		return 0, true
	}
	ttl = s.TTL(now)
	if ttl <= 0 {
		return 0, false
	}
	return ttl, true
}

func encodeSession(s *model.Session) ([]byte, error) {
	return json.Marshal(cachedSession{
		IdentityID: s.IdentityID,
		CreatedAt:  s.CreatedAt,
		ExpiresAt:  s.ExpiresAt,
	})
}

func decodeSession(tokenHash string, data []byte) (*model.Session, error) {
	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &model.Session{
		TokenHash:  tokenHash,
		IdentityID: cached.IdentityID,
		CreatedAt:  cached.CreatedAt,
		ExpiresAt:  cached.ExpiresAt,
	}, nil
}

// Create stores s with SET NX so an existing session is never overwritten.
func (s *SessionStore) Create(ctx context.Context, sess *model.Session) error {
	ttl, ok := keyTTL(sess, s.now())
	if !ok {
		// Already expired: nothing to keep.
		return nil
	}

	data, err := encodeSession(sess)
	if err != nil {
		return oops.With("operation", "encode session").Wrap(err)
	}

	created, err := s.cache.client.SetNX(ctx, sessionKey(sess.TokenHash), data, ttl).Result()
	if err != nil {
		return oops.With("operation", "create session").Wrap(err)
	}
	if !created {
		return session.ErrTokenCollision
	}
	return nil
}

// Get returns the session stored under tokenHash. Corrupt entries are
// dropped and reported as absent.
func (s *SessionStore) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	key := sessionKey(tokenHash)

	data, err := s.cache.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, oops.With("operation", "get session").Wrap(err)
	}

	sess, err := decodeSession(tokenHash, data)
	if err != nil {
		_ = s.cache.client.Del(ctx, key).Err()
		return nil, session.ErrNotFound
	}
	if sess.IsExpiredAt(s.now()) {
		return nil, session.ErrNotFound
	}
	return sess, nil
}

// Delete removes the session. Absent keys are ignored.
func (s *SessionStore) Delete(ctx context.Context, tokenHash string) error {
	if err := s.cache.client.Del(ctx, sessionKey(tokenHash)).Err(); err != nil {
		return oops.With("operation", "delete session").Wrap(err)
	}
	return nil
}
