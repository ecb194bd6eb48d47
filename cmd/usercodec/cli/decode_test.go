package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"usercodec/internal/usecase/user"
)

func run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	log := zaptest.NewLogger(t)
	uc := user.New(user.Config{BatchWorkers: 1}, log)

	var stdout, stderr bytes.Buffer
	code := Decode(context.Background(), uc, args, strings.NewReader(stdin), &stdout, &stderr, log)
	return code, stdout.String(), stderr.String()
}

func TestDecode_Stdin(t *testing.T) {
	code, stdout, stderr := run(t, `{"createdAt":"2024-03-01T10:00:00+05:30","id":"u1","isAdmin":true,"karma":3}`)

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Equal(t, `{"createdAt":"2024-03-01T10:00:00+05:30","id":"u1","isAdmin":true,"karma":3}`+"\n", stdout)
}

func TestDecode_FilesWithFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"createdAt":"2024-01-01T00:00:00Z","id":"g","isAdmin":false,"karma":1}`), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte(`{"createdAt":"2024-01-01T00:00:00Z","id":"b","isAdmin":false}`), 0o600))

	code, stdout, stderr := run(t, "", good, bad)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, `"id":"g"`)
	assert.NotContains(t, stdout, `"id":"b"`)
	assert.Contains(t, stderr, "bad.json: decode karma: missing field")
}

func TestDecode_Strict(t *testing.T) {
	input := `{"createdAt":"2024-01-01T00:00:00Z","id":"s","isAdmin":false,"karma":1,"extra":0}`

	code, _, _ := run(t, input)
	assert.Equal(t, 0, code)

	code, _, stderr := run(t, input, "-strict")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "decode extra: unknown field")
}

func TestDecode_MissingFile(t *testing.T) {
	code, _, stderr := run(t, "", filepath.Join(t.TempDir(), "nope.json"))

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "nope.json")
}

func TestDecode_BadFlag(t *testing.T) {
	code, _, _ := run(t, "", "-unknown")
	assert.Equal(t, 2, code)
}
