package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	return l
}

func TestLocal_SaveOpenRemove(t *testing.T) {
	l := newTestLocal(t)

	key, err := l.Save(strings.NewReader("plain text evidence"), "notes.txt")
	require.NoError(t, err)
	require.NotEmpty(t, key)
	assert.True(t, strings.HasSuffix(key, ".txt"))

	rc, err := l.Open(key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "plain text evidence", string(data))

	require.NoError(t, l.Remove(key))
	_, err = l.Open(key)
	assert.ErrorIs(t, err, ErrNotFound)

	// removing twice is fine
	assert.NoError(t, l.Remove(key))
}

func TestLocal_UniqueKeys(t *testing.T) {
	l := newTestLocal(t)

	k1, err := l.Save(strings.NewReader("same content"), "a.txt")
	require.NoError(t, err)
	k2, err := l.Save(strings.NewReader("same content"), "a.txt")
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
}

func TestLocal_AcceptsPDF(t *testing.T) {
	l := newTestLocal(t)

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF")
	key, err := l.Save(bytes.NewReader(pdf), "policy.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".pdf"))
}

func TestLocal_RejectsUnsupportedType(t *testing.T) {
	l := newTestLocal(t)

	// ELF header; nowhere near the document allowlist
	bin := []byte{0x7f, 'E', 'L', 'F', 0x02, 0x01, 0x01, 0x00}
	_, err := l.Save(bytes.NewReader(bin), "malware.exe")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocal_SanitizesExtension(t *testing.T) {
	l := newTestLocal(t)

	key, err := l.Save(strings.NewReader("text"), "../../etc/passwd")
	require.NoError(t, err)
	assert.NotContains(t, key, "/")
	assert.NotContains(t, key, "..")
}

func TestSafeExt(t *testing.T) {
	assert.Equal(t, ".pdf", safeExt("report.PDF"))
	assert.Equal(t, ".txt", safeExt("/tmp/a/notes.txt"))
	assert.Equal(t, "", safeExt("noext"))
	assert.Equal(t, "", safeExt("weird.e!xt"))
	assert.Equal(t, "", safeExt("x.averylongextension"))
}
