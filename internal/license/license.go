package license

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
)

var (
	ErrUnknownCode = errors.New("license code not found")
	ErrCodeUsed    = errors.New("license code already used")
	ErrCodeExpired = errors.New("license code expired")
)

const (
	KindMonthly = "M"
	KindYearly  = "Y"
)

// License is one issued activation code. Codes activate exactly once.
type License struct {
	Code      string    `json:"code"`
	Client    string    `json:"client"`
	Kind      string    `json:"type"`
	ExpiresAt time.Time `json:"expires"`
	Used      bool      `json:"used"`
}

// Store keeps issued licenses. The service is stateless beyond this map and
// shares no data with the ticket engine.
type Store interface {
	Put(l *License)
	Get(code string) (*License, bool)
}

type memoryStore struct {
	mu       sync.Mutex
	licenses map[string]*License
}

func NewMemoryStore() Store {
	return &memoryStore{licenses: map[string]*License{}}
}

func (s *memoryStore) Put(l *License) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.licenses[l.Code] = l
}

func (s *memoryStore) Get(code string) (*License, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.licenses[code]
	return l, ok
}

// Service issues and activates coded tokens with an expiry derived from the
// kind: 30 days for monthly, 365 for yearly.
type Service struct {
	store  Store
	prefix string
}

func NewService(store Store, prefix string) *Service {
	return &Service{store: store, prefix: prefix}
}

// Generate issues a fresh code for a client. Unknown kinds default to
// monthly, matching the lenient input handling of the activation flow.
func (s *Service) Generate(client, kind string, now time.Time) (*License, error) {
	kind = strings.ToUpper(strings.TrimSpace(kind))
	days := 30
	if kind == KindYearly {
		days = 365
	} else {
		kind = KindMonthly
	}

	num, err := randomDigits(5)
	if err != nil {
		return nil, err
	}

	l := &License{
		Code:      fmt.Sprintf("%s-%s-%s", s.prefix, num, kind),
		Client:    client,
		Kind:      kind,
		ExpiresAt: now.UTC().Add(time.Duration(days) * 24 * time.Hour),
	}
	s.store.Put(l)
	return l, nil
}

// Activate marks a code used. A code activates at most once and only before
// its expiry.
func (s *Service) Activate(code string, now time.Time) (*License, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	l, ok := s.store.Get(code)
	if !ok {
		return nil, ErrUnknownCode
	}
	if l.Used {
		return nil, ErrCodeUsed
	}
	if now.UTC().After(l.ExpiresAt) {
		return nil, ErrCodeExpired
	}

	l.Used = true
	s.store.Put(l)
	return l, nil
}

func randomDigits(k int) (string, error) {
	digits := make([]byte, k)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
