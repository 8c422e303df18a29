package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bannugul/consumer-gateway/pkg/config"
	"github.com/bannugul/consumer-gateway/pkg/db"
	pkgerrors "github.com/bannugul/consumer-gateway/pkg/errors"
)

// Store is the single read/write boundary for session state. Nothing else
// touches the upstream token or the profile snapshot directly.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewStore binds the store to the embedded database and migrates its schema.
func NewStore(client *db.Client, cfg config.SessionConfig) (*Store, error) {
	if client == nil {
		return nil, errors.New("session store requires a database client")
	}
	conn := client.DB()
	if err := conn.AutoMigrate(&Session{}); err != nil {
		return nil, err
	}
	return &Store{db: conn, ttl: cfg.TTL}, nil
}

// Create persists a new session row, assigning an id and expiry.
func (s *Store) Create(ctx context.Context, sess *Session) error {
	if sess == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "nil session")
	}
	if strings.TrimSpace(sess.UpstreamToken) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "upstream token is required")
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if s.ttl > 0 {
		sess.ExpiresAt = time.Now().Add(s.ttl)
	}
	return s.db.WithContext(ctx).Create(sess).Error
}

// Find loads a live session by id. Expired rows are deleted on read.
func (s *Store) Find(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if sess.Expired(time.Now()) {
		_ = s.db.WithContext(ctx).Delete(&Session{}, "id = ?", id).Error
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}
	return &sess, nil
}

// Delete removes the session row. Deleting an absent session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&Session{}, "id = ?", id).Error
}

// UpdateProfile replaces the stored profile snapshot.
func (s *Store) UpdateProfile(ctx context.Context, id string, profile Profile) error {
	var sess Session
	if err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if err := sess.SetProfile(profile); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode profile")
	}
	return s.db.WithContext(ctx).Model(&Session{}).
		Where("id = ?", id).
		Update("profile_json", sess.ProfileJSON).Error
}

// PurgeExpired removes sessions past their TTL; called opportunistically at
// boot.
func (s *Store) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&Session{})
	return res.RowsAffected, res.Error
}
