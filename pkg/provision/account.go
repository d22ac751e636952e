package provision

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"gorm.io/gorm"

	"testlinkctl/pkg/model"
)

// AdminRoleID is TestLink's built-in administrator role.
const AdminRoleID = 8

// AccountSeeder creates the administrative account and pins its API key to
// the pre-shared value. Both steps are idempotent: the insert ignores an
// existing login, and the key update is applied unconditionally on every run.
type AccountSeeder struct {
	DB *gorm.DB

	// Table is the (prefix-applied) users table name.
	Table string

	Login     string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Locale    string

	// DefaultProject references the account's default test project;
	// zero means none.
	DefaultProject int

	// APIKey is the pre-shared 32-character devKey.
	APIKey string
}

// Seed inserts the admin row if the login is absent, then forces the API key
// to the pre-shared value regardless of prior state.
func (a *AccountSeeder) Seed(ctx context.Context) error {
	// TestLink validates logins against an unsalted MD5 of the password, so
	// the seeded hash has to match that scheme.
	passwordHash := HashPassword(a.Password)

	insert := fmt.Sprintf(
		"INSERT IGNORE INTO `%s` (login, password, role_id, email, first, last, locale, default_testproject_id, active, script_key, auth_method) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, '')",
		a.Table,
	)
	err := a.DB.WithContext(ctx).Exec(insert,
		a.Login, passwordHash, AdminRoleID, a.Email,
		a.FirstName, a.LastName, a.Locale, a.DefaultProject, a.APIKey,
	).Error
	if err != nil {
		return fmt.Errorf("failed to insert account %q: %w", a.Login, err)
	}

	update := fmt.Sprintf("UPDATE `%s` SET script_key = ? WHERE login = ?", a.Table)
	err = a.DB.WithContext(ctx).Exec(update, a.APIKey, a.Login).Error
	if err != nil {
		return fmt.Errorf("failed to update API key for %q: %w", a.Login, err)
	}

	return nil
}

// Lookup fetches the seeded user row back from the database.
func (a *AccountSeeder) Lookup(ctx context.Context) (*model.User, error) {
	var user model.User
	err := a.DB.WithContext(ctx).Table(a.Table).
		Where("login = ?", a.Login).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up account %q: %w", a.Login, err)
	}
	return &user, nil
}

// HashPassword returns the unsalted MD5 digest TestLink stores for logins.
// This is a known weakness of the wrapped application, not a choice made
// here.
func HashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
