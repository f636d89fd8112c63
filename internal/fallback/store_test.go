package fallback

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestRecordLinkIssuesSixDigitCodes(t *testing.T) {
	s := New(Options{})

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := s.RecordLink("U1")
		assert.Regexp(t, sixDigits, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes should be random")
}

func TestRecordLinkLastWriteWins(t *testing.T) {
	s := New(Options{})

	first := s.RecordLink("U1")
	second := s.RecordLink("U1")

	code, ok := s.PendingCode("U1")
	require.True(t, ok)
	assert.Equal(t, second, code)

	owner, ok := s.CodeOwner(second)
	require.True(t, ok)
	assert.Equal(t, "U1", owner)

	if first != second {
		_, ok = s.CodeOwner(first)
		assert.False(t, ok, "previous code must stop resolving")
	}
	assert.Equal(t, 1, s.Stats().PendingCodes)
}

func TestRecordLinkRegeneratesOnCollision(t *testing.T) {
	// First six bytes give 111111, the next six 111111 again, then 222222.
	entropy := bytes.Repeat([]byte{1}, 12)
	entropy = append(entropy, bytes.Repeat([]byte{2}, 6)...)
	s := New(Options{Rand: bytes.NewReader(entropy)})

	assert.Equal(t, "111111", s.RecordLink("U1"))
	assert.Equal(t, "222222", s.RecordLink("U2"))

	owner, _ := s.CodeOwner("111111")
	assert.Equal(t, "U1", owner)
}

func TestCodesExpire(t *testing.T) {
	s := New(Options{CodeTTL: 30 * time.Millisecond})

	code := s.RecordLink("U1")
	time.Sleep(80 * time.Millisecond)

	_, ok := s.PendingCode("U1")
	assert.False(t, ok)
	_, ok = s.CodeOwner(code)
	assert.False(t, ok)
}

func TestLookupBalance(t *testing.T) {
	s := New(Options{})

	_, ok := s.LookupBalance("U1")
	assert.False(t, ok, "unlinked identity")

	s.Link("U1", "Steve")
	amount, ok := s.LookupBalance("U1")
	assert.True(t, ok)
	assert.Zero(t, amount, "linked without a cached balance defaults to 0")

	s.SetBalance("Steve", 42)
	amount, ok = s.LookupBalance("U1")
	assert.True(t, ok)
	assert.Equal(t, 42.0, amount)

	s.Unlink("U1")
	_, ok = s.LookupBalance("U1")
	assert.False(t, ok)
}

func TestRecordLinkDoesNotLinkIdentity(t *testing.T) {
	s := New(Options{})
	s.RecordLink("U1")

	_, ok := s.LookupBalance("U1")
	assert.False(t, ok)
}

func TestSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
links:
  U1: Steve
  U2: Alex
balances:
  Steve: 42
`), 0o644))

	seed, err := LoadSeed(path)
	require.NoError(t, err)

	s := New(Options{})
	s.Apply(seed)

	amount, ok := s.LookupBalance("U1")
	assert.True(t, ok)
	assert.Equal(t, 42.0, amount)

	stats := s.Stats()
	assert.Equal(t, 2, stats.Links)
	assert.Equal(t, 1, stats.Balances)
}

func TestSeedErrors(t *testing.T) {
	empty, err := LoadSeed("")
	require.NoError(t, err)
	assert.Empty(t, empty.Links)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseSeed([]byte("links: [nope"))
	assert.Error(t, err)

	_, err = ParseSeed([]byte("links:\n  U1: \"\"\n"))
	assert.Error(t, err)
}
