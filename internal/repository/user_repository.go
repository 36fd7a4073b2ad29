package repository // repository defines data access for user accounts

import (
	"log"
	"time"

	"github.com/anveshk/rideshare-board/internal/database"
	"github.com/anveshk/rideshare-board/internal/model"
	"github.com/anveshk/rideshare-board/internal/utils"
)

var userHeader = []string{"id", "phoneNumber", "name", "createdAt", "isVerified", "password", "lastLoginAt"}

// userMinFields tolerates rows written before the password and
// lastLoginAt columns existed.
const userMinFields = 5

// UserRepo provides methods to work with user accounts in the CSV
// store. Lookups are linear scans over the full file; the user base
// of a community board stays small enough that this is fine.
type UserRepo struct {
	table *database.Table
}

// NewUserRepo constructs a UserRepo backed by the CSV file at path.
func NewUserRepo(path string) *UserRepo {
	return &UserRepo{table: database.NewTable(path, userHeader, userMinFields)}
}

// Initialize creates the backing file with a header line when missing.
func (r *UserRepo) Initialize() error {
	return r.table.Initialize()
}

// Create registers a new account. The phone number must not already
// be taken; ErrPhoneExists is returned when it is. The id and
// createdAt fields are assigned here. Password is stored as given,
// so callers hash it first.
func (r *UserRepo) Create(user model.User) (model.User, error) {
	if err := r.table.Initialize(); err != nil {
		return model.User{}, err
	}
	users := r.loadAll()
	for _, u := range users {
		if u.PhoneNumber == user.PhoneNumber {
			return model.User{}, ErrPhoneExists
		}
	}
	user.ID = utils.NewID("user")
	user.CreatedAt = time.Now().UTC()
	users = append(users, user)
	if err := r.saveAll(users); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// GetByPhone returns the account registered under the given phone
// number, or ErrNotFound.
func (r *UserRepo) GetByPhone(phone string) (model.User, error) {
	if err := r.table.Initialize(); err != nil {
		return model.User{}, err
	}
	for _, u := range r.loadAll() {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// GetByID returns the account with the given id, or ErrNotFound.
func (r *UserRepo) GetByID(id string) (model.User, error) {
	if err := r.table.Initialize(); err != nil {
		return model.User{}, err
	}
	for _, u := range r.loadAll() {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// Update replaces the stored record matching user.ID. Returns
// ErrNotFound when no such account exists.
func (r *UserRepo) Update(user model.User) error {
	if err := r.table.Initialize(); err != nil {
		return err
	}
	users := r.loadAll()
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user
			return r.saveAll(users)
		}
	}
	return ErrNotFound
}

// Delete removes the account with the given id. Rides and messages
// created by the account are left in place; their createdBy/senderId
// references simply dangle. That is a deliberate policy, not an
// oversight.
func (r *UserRepo) Delete(id string) error {
	if err := r.table.Initialize(); err != nil {
		return err
	}
	users := r.loadAll()
	for i := range users {
		if users[i].ID == id {
			users = append(users[:i], users[i+1:]...)
			return r.saveAll(users)
		}
	}
	return ErrNotFound
}

func (r *UserRepo) loadAll() []model.User {
	rows, err := r.table.ReadRows()
	if err != nil {
		log.Printf("user store: read: %v", err)
		return nil
	}
	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, userFromRow(row))
	}
	return users
}

func (r *UserRepo) saveAll(users []model.User) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, userToRow(u))
	}
	return r.table.WriteRows(rows)
}

func userFromRow(row []string) model.User {
	return model.User{
		ID:          row[0],
		PhoneNumber: row[1],
		Name:        row[2],
		CreatedAt:   parseTime(row[3]),
		IsVerified:  parseBool(row[4]),
		Password:    row[5],
		LastLoginAt: parseTime(row[6]),
	}
}

func userToRow(u model.User) []string {
	return []string{
		u.ID, u.PhoneNumber, u.Name,
		formatTime(u.CreatedAt), formatBool(u.IsVerified),
		u.Password, formatTime(u.LastLoginAt),
	}
}
