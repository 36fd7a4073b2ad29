package repository // repository defines data access for bearer sessions

import (
	"log"
	"time"

	"github.com/anveshk/rideshare-board/internal/database"
	"github.com/anveshk/rideshare-board/internal/model"
	"github.com/anveshk/rideshare-board/internal/utils"
)

var sessionHeader = []string{"token", "userId", "expiresAt"}

const sessionMinFields = 3

// SessionRepo provides methods to work with login sessions in the
// CSV store. A session is an opaque random token mapped to a user id
// with an expiry. Token resolution is a linear scan on every
// authenticated request; expired rows are skipped when read and only
// physically removed on logout or account deletion, never by a
// background sweep.
type SessionRepo struct {
	table *database.Table
}

// NewSessionRepo constructs a SessionRepo backed by the CSV file at path.
func NewSessionRepo(path string) *SessionRepo {
	return &SessionRepo{table: database.NewTable(path, sessionHeader, sessionMinFields)}
}

// Initialize creates the backing file with a header line when missing.
func (r *SessionRepo) Initialize() error {
	return r.table.Initialize()
}

// Create mints a fresh random token for the user, persists it with
// expiresAt = now + ttl and returns the stored session.
func (r *SessionRepo) Create(userID string, ttl time.Duration) (model.Session, error) {
	if err := r.table.Initialize(); err != nil {
		return model.Session{}, err
	}
	token, err := utils.NewSessionToken()
	if err != nil {
		return model.Session{}, err
	}
	session := model.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	sessions := append(r.loadAll(), session)
	if err := r.saveAll(sessions); err != nil {
		return model.Session{}, err
	}
	return session, nil
}

// GetByToken resolves a bearer token to its session. Expired rows
// are treated as absent.
func (r *SessionRepo) GetByToken(token string) (model.Session, error) {
	if err := r.table.Initialize(); err != nil {
		return model.Session{}, err
	}
	now := time.Now().UTC()
	for _, s := range r.loadAll() {
		if s.Token == token && s.ExpiresAt.After(now) {
			return s, nil
		}
	}
	return model.Session{}, ErrNotFound
}

// DeleteByToken removes every row carrying the token (normally one).
// Deleting a token that is already gone is not an error.
func (r *SessionRepo) DeleteByToken(token string) error {
	if err := r.table.Initialize(); err != nil {
		return err
	}
	sessions := r.loadAll()
	kept := sessions[:0]
	for _, s := range sessions {
		if s.Token != token {
			kept = append(kept, s)
		}
	}
	return r.saveAll(kept)
}

// DeleteByUser removes every session belonging to the user. Used on
// account deletion so no live token outlives its account.
func (r *SessionRepo) DeleteByUser(userID string) error {
	if err := r.table.Initialize(); err != nil {
		return err
	}
	sessions := r.loadAll()
	kept := sessions[:0]
	for _, s := range sessions {
		if s.UserID != userID {
			kept = append(kept, s)
		}
	}
	return r.saveAll(kept)
}

func (r *SessionRepo) loadAll() []model.Session {
	rows, err := r.table.ReadRows()
	if err != nil {
		log.Printf("session store: read: %v", err)
		return nil
	}
	sessions := make([]model.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, model.Session{
			Token:     row[0],
			UserID:    row[1],
			ExpiresAt: parseTime(row[2]),
		})
	}
	return sessions
}

func (r *SessionRepo) saveAll(sessions []model.Session) error {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{s.Token, s.UserID, formatTime(s.ExpiresAt)})
	}
	return r.table.WriteRows(rows)
}
