package repository // repository defines data access for OTP sessions

import (
	"log"
	"math"
	"strconv"
	"time"

	"github.com/anveshk/rideshare-board/internal/database"
	"github.com/anveshk/rideshare-board/internal/model"
	"github.com/anveshk/rideshare-board/internal/utils"
)

var otpHeader = []string{"phoneNumber", "otp", "name", "expiresAt", "attempts"}

const otpMinFields = 4

// maxOTPAttempts is the number of wrong codes tolerated before the
// session is burned. The check runs lazily on the next verify, so a
// record sits at the limit until someone touches it again.
const maxOTPAttempts = 3

// OTPRepo provides methods to work with pending phone verification
// codes in the CSV store. At most one code is active per phone
// number; requesting a new one overwrites the old. Expiry and the
// attempt limit are enforced lazily at verification time, never by a
// background sweep.
type OTPRepo struct {
	table *database.Table
}

// NewOTPRepo constructs an OTPRepo backed by the CSV file at path.
func NewOTPRepo(path string) *OTPRepo {
	return &OTPRepo{table: database.NewTable(path, otpHeader, otpMinFields)}
}

// Initialize creates the backing file with a header line when missing.
func (r *OTPRepo) Initialize() error {
	return r.table.Initialize()
}

// Request issues a fresh 6-digit code for the phone number, valid
// for ttl. A previous code requested less than cooldown ago blocks
// the new one with a CooldownError carrying the seconds remaining.
// The creation instant of the old code is reconstructed from its
// expiry, which works because every code is written with the same
// ttl.
func (r *OTPRepo) Request(phone, name string, ttl, cooldown time.Duration) (model.OTPSession, error) {
	if err := r.table.Initialize(); err != nil {
		return model.OTPSession{}, err
	}
	sessions := r.loadAll()
	now := time.Now().UTC()
	existing := -1
	for i, s := range sessions {
		if s.PhoneNumber == phone {
			existing = i
			break
		}
	}
	if existing >= 0 {
		createdAt := sessions[existing].ExpiresAt.Add(-ttl)
		if wait := createdAt.Add(cooldown).Sub(now); wait > 0 {
			return model.OTPSession{}, &CooldownError{RetryAfter: int(math.Ceil(wait.Seconds()))}
		}
	}
	code, err := utils.NewOTP()
	if err != nil {
		return model.OTPSession{}, err
	}
	session := model.OTPSession{
		PhoneNumber: phone,
		OTP:         code,
		Name:        name,
		ExpiresAt:   now.Add(ttl),
		Attempts:    0,
	}
	if existing >= 0 {
		sessions[existing] = session
	} else {
		sessions = append(sessions, session)
	}
	if err := r.saveAll(sessions); err != nil {
		return model.OTPSession{}, err
	}
	return session, nil
}

// Verify runs the code through the session state machine:
//
//	no record            -> ErrNoActiveOTP
//	attempts exhausted   -> purge, ErrOTPAttemptsExceeded
//	past expiry          -> purge, ErrOTPExpired
//	wrong code           -> increment attempts, ErrInvalidOTP
//	correct code         -> consume (purge) and return the record
//
// The returned record carries the name captured at request time so
// callers can finish a registration.
func (r *OTPRepo) Verify(phone, code string) (model.OTPSession, error) {
	if err := r.table.Initialize(); err != nil {
		return model.OTPSession{}, err
	}
	sessions := r.loadAll()
	idx := -1
	for i, s := range sessions {
		if s.PhoneNumber == phone {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.OTPSession{}, ErrNoActiveOTP
	}
	session := sessions[idx]
	if session.Attempts >= maxOTPAttempts {
		if err := r.saveAll(append(sessions[:idx], sessions[idx+1:]...)); err != nil {
			return model.OTPSession{}, err
		}
		return model.OTPSession{}, ErrOTPAttemptsExceeded
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		if err := r.saveAll(append(sessions[:idx], sessions[idx+1:]...)); err != nil {
			return model.OTPSession{}, err
		}
		return model.OTPSession{}, ErrOTPExpired
	}
	if session.OTP != code {
		sessions[idx].Attempts++
		if err := r.saveAll(sessions); err != nil {
			return model.OTPSession{}, err
		}
		return model.OTPSession{}, ErrInvalidOTP
	}
	if err := r.saveAll(append(sessions[:idx], sessions[idx+1:]...)); err != nil {
		return model.OTPSession{}, err
	}
	return session, nil
}

func (r *OTPRepo) loadAll() []model.OTPSession {
	rows, err := r.table.ReadRows()
	if err != nil {
		log.Printf("otp store: read: %v", err)
		return nil
	}
	sessions := make([]model.OTPSession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, model.OTPSession{
			PhoneNumber: row[0],
			OTP:         row[1],
			Name:        row[2],
			ExpiresAt:   parseTime(row[3]),
			Attempts:    parseIntDefault(row[4], 0),
		})
	}
	return sessions
}

func (r *OTPRepo) saveAll(sessions []model.OTPSession) error {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.PhoneNumber, s.OTP, s.Name,
			formatTime(s.ExpiresAt), strconv.Itoa(s.Attempts),
		})
	}
	return r.table.WriteRows(rows)
}
