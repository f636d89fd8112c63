// Package fallback holds the degraded-mode view of the economy used while the
// remote API is unreachable. Nothing here is authoritative: it lives for the
// process lifetime, is never persisted and never written back.
package fallback

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultCodeLength = 6
	DefaultCodeTTL    = 5 * time.Minute
	DefaultMaxCodes   = 10000

	digits = "0123456789"

	// maxCodeAttempts bounds regeneration when a fresh code is already held
	// by someone else.
	maxCodeAttempts = 8
)

type Options struct {
	CodeLength int
	CodeTTL    time.Duration
	MaxCodes   int

	// Rand is the entropy source for codes; crypto/rand when nil.
	Rand io.Reader
}

type Stats struct {
	Links        int
	Balances     int
	PendingCodes int
}

// Store maps external (Discord) identities to internal (game) identities and
// internal identities to balances, and issues local verification codes.
//
// Only one code per external identity is live at a time: issuing a new one
// drops the previous. Codes expire after CodeTTL.
type Store struct {
	mu       sync.Mutex
	links    map[string]string              // external -> internal
	balances map[string]float64             // internal -> amount
	codes    *expirable.LRU[string, string] // code -> external
	byUser   *expirable.LRU[string, string] // external -> code

	codeLen int
	rand    io.Reader
}

func New(opts Options) *Store {
	if opts.CodeLength <= 0 {
		opts.CodeLength = DefaultCodeLength
	}
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = DefaultCodeTTL
	}
	if opts.MaxCodes <= 0 {
		opts.MaxCodes = DefaultMaxCodes
	}
	if opts.Rand == nil {
		opts.Rand = rand.Reader
	}
	return &Store{
		links:    make(map[string]string),
		balances: make(map[string]float64),
		codes:    expirable.NewLRU[string, string](opts.MaxCodes, nil, opts.CodeTTL),
		byUser:   expirable.NewLRU[string, string](opts.MaxCodes, nil, opts.CodeTTL),
		codeLen:  opts.CodeLength,
		rand:     opts.Rand,
	}
}

// RecordLink issues a fresh numeric code for externalID and returns it.
// Any previous code for the same user stops resolving.
func (s *Store) RecordLink(externalID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code = s.newCode()
		owner, taken := s.codes.Get(code)
		if !taken || owner == externalID {
			break
		}
	}

	if prev, ok := s.byUser.Get(externalID); ok && prev != code {
		s.codes.Remove(prev)
	}
	s.codes.Add(code, externalID)
	s.byUser.Add(externalID, code)
	return code
}

// PendingCode returns the live code issued to externalID.
func (s *Store) PendingCode(externalID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.byUser.Get(externalID)
	if !ok {
		return "", false
	}
	if owner, ok := s.codes.Get(code); !ok || owner != externalID {
		return "", false
	}
	return code, true
}

// CodeOwner resolves a live code back to the external identity it was issued to.
func (s *Store) CodeOwner(code string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes.Get(code)
}

// Link records an emulated external -> internal identity mapping.
func (s *Store) Link(externalID, internalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[externalID] = internalID
}

// Unlink forgets the mapping for externalID.
func (s *Store) Unlink(externalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, externalID)
}

// InternalID returns the game identity linked to externalID.
func (s *Store) InternalID(externalID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.links[externalID]
	return id, ok
}

// SetBalance records the cached balance of a game identity.
func (s *Store) SetBalance(internalID string, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[internalID] = amount
}

// LookupBalance resolves externalID to its game identity and returns the
// cached balance, 0 when the identity is linked but has no balance recorded.
// ok is false when externalID is not linked.
func (s *Store) LookupBalance(externalID string) (amount float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	internalID, linked := s.links[externalID]
	if !linked {
		return 0, false
	}
	return s.balances[internalID], true
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Links:        len(s.links),
		Balances:     len(s.balances),
		PendingCodes: s.codes.Len(),
	}
}

// newCode draws codeLen uniform digits. Bytes >= 250 are rejected so each
// digit is unbiased.
func (s *Store) newCode() string {
	out := make([]byte, 0, s.codeLen)
	buf := make([]byte, s.codeLen)
	for len(out) < s.codeLen {
		if _, err := io.ReadFull(s.rand, buf); err != nil {
			// crypto/rand does not fail on supported platforms; a broken test
			// reader degrades to zeros rather than looping forever.
			for len(out) < s.codeLen {
				out = append(out, '0')
			}
			break
		}
		for _, b := range buf {
			if b >= 250 || len(out) == s.codeLen {
				continue
			}
			out = append(out, digits[b%10])
		}
	}
	return string(out)
}
