package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func writeUsersFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeUsersFile(t, "admin:password123\nfilippo : test2024 \n\nmalformed line\n")
	table, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	require.True(t, table.Authenticate("admin", "password123"))
	require.True(t, table.Authenticate("filippo", "test2024"))
	require.False(t, table.Authenticate("admin", "wrong"))
	require.False(t, table.Authenticate("ghost", "password123"))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestLoadFileOrDefaultsFallsBack(t *testing.T) {
	table := LoadFileOrDefaults(filepath.Join(t.TempDir(), "nope.txt"))
	require.True(t, table.Authenticate("admin", "password123"))
	require.True(t, table.Authenticate("filippo", "test2024"))
}

func TestBcryptPasswords(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	path := writeUsersFile(t, "hashed:"+string(hash)+"\n")

	table, err := LoadFile(path)
	require.NoError(t, err)
	require.True(t, table.Authenticate("hashed", "s3cret"))
	require.False(t, table.Authenticate("hashed", "wrong"))
	require.False(t, table.Authenticate("hashed", string(hash)))
}

func TestPasswordWithColon(t *testing.T) {
	path := writeUsersFile(t, "user:pa:ss:word\n")
	table, err := LoadFile(path)
	require.NoError(t, err)
	require.True(t, table.Authenticate("user", "pa:ss:word"))
}
