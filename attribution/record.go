package attribution

import (
	"strings"
	"sync"
	"time"
)

// Record is a read view over a visitor's stored attribution entries.
type Record interface {
	Get(scope Scope, key Key) (string, bool)
}

// Slot names a (scope, key) pair, e.g. "first_utm_source".
func Slot(scope Scope, key Key) string {
	return string(scope) + "_" + string(key)
}

// ParseSlot splits a slot name back into its scope and key.
func ParseSlot(slot string) (Scope, Key, bool) {
	scope, key, ok := strings.Cut(slot, "_")
	if !ok || key == "" {
		return "", "", false
	}
	switch Scope(scope) {
	case First, Last:
		return Scope(scope), Key(key), true
	}
	return "", "", false
}

// Values is a map-backed Record keyed by slot name.
type Values map[string]string

func (v Values) Get(scope Scope, key Key) (string, bool) {
	if v == nil {
		return "", false
	}
	val, ok := v[Slot(scope, key)]
	return val, ok
}

// Set stores a value for the slot.
func (v Values) Set(scope Scope, key Key, value string) {
	v[Slot(scope, key)] = value
}

// Write is a single entry capture wants persisted.
type Write struct {
	Scope Scope
	Key   Key
	Value string
}

// Slot returns the write's slot name.
func (w Write) Slot() string {
	return Slot(w.Scope, w.Key)
}

// Storage is the client-held medium behind a visitor's record. Implementations
// enforce expiry; the core never deletes entries.
type Storage interface {
	Record() Record
	Write(w Write, ttl time.Duration) error
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStorage keeps entries in process with per-entry expiry.
type MemoryStorage struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStorage returns an empty storage. A nil clock defaults to time.Now.
func NewMemoryStorage(now func() time.Time) *MemoryStorage {
	if now == nil {
		now = time.Now
	}
	return &MemoryStorage{now: now, entries: make(map[string]memoryEntry)}
}

func (m *MemoryStorage) Write(w Write, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[w.Slot()] = memoryEntry{value: w.Value, expiresAt: m.now().Add(ttl)}
	return nil
}

// Record returns a snapshot of the entries that have not expired yet.
func (m *MemoryStorage) Record() Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	out := make(Values, len(m.entries))
	for slot, e := range m.entries {
		if now.Before(e.expiresAt) {
			out[slot] = e.value
		}
	}
	return out
}
