// Package auth supplies the credential table the server authenticates against.
package auth

import (
	"bufio"
	"crypto/subtle"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Authenticator verifies a username/password pair.
type Authenticator interface {
	Authenticate(username, password string) bool
}

// Table is an in-memory credential table. Stored passwords beginning with
// "$2" are treated as bcrypt hashes, anything else as a literal password.
type Table struct {
	users map[string]string
}

// Defaults returns the built-in fallback accounts.
func Defaults() *Table {
	return &Table{users: map[string]string{
		"admin":   "password123",
		"filippo": "test2024",
	}}
}

// LoadFile reads a credential file with one "user:password" line per user.
// Blank lines and lines without a separator are skipped.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open users file %s failed", path)
	}
	defer f.Close()

	users := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.Contains(line, ":") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		users[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read users file %s failed", path)
	}
	return &Table{users: users}, nil
}

// LoadFileOrDefaults loads the credential file, falling back to the built-in
// accounts when it cannot be read.
func LoadFileOrDefaults(path string) *Table {
	table, err := LoadFile(path)
	if err != nil {
		logger.WithError(err).Warn("users file unavailable, using default accounts")
		return Defaults()
	}
	logger.WithField("users", table.Len()).Info("credential table loaded")
	return table
}

// Authenticate verifies the pair against the table.
func (t *Table) Authenticate(username, password string) bool {
	stored, ok := t.users[username]
	if !ok {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// Len returns the number of loaded accounts.
func (t *Table) Len() int {
	return len(t.users)
}
