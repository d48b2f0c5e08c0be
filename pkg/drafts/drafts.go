// Package drafts keeps unsaved form values so an edit can be resumed later.
// A draft is keyed by the resource being edited, the form mode and, when
// updating, the id of the edited item.
package drafts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
)

// ErrNotFound is returned when no draft exists for a key.
var ErrNotFound = errors.New("drafts: draft not found")

// ErrInvalidKey is returned for keys without a resource name.
var ErrInvalidKey = errors.New("drafts: resource name is required")

// ErrKeySeparator is returned for key segments containing the ":" separator.
var ErrKeySeparator = errors.New(`drafts: key segments must not contain ":"`)

// Key identifies a draft. ItemID is empty for create forms.
type Key struct {
	Resource string `json:"resource"`
	Mode     string `json:"mode"`
	ItemID   string `json:"itemId,omitempty"`
}

// Validate checks the key can address a draft.
func (k Key) Validate() error {
	if strings.TrimSpace(k.Resource) == "" {
		return ErrInvalidKey
	}
	for _, segment := range []string{k.Resource, k.Mode, k.ItemID} {
		if strings.Contains(segment, ":") {
			return fmt.Errorf("%w: %q", ErrKeySeparator, segment)
		}
	}
	return nil
}

// String renders the key as "resource:mode[:itemID]".
func (k Key) String() string {
	parts := []string{strings.TrimSpace(k.Resource), strings.TrimSpace(k.Mode)}
	if id := strings.TrimSpace(k.ItemID); id != "" {
		parts = append(parts, id)
	}
	return strings.Join(parts, ":")
}

// Draft is a stored value tree.
type Draft struct {
	Key     Key                `json:"key"`
	Values  metadata.ValueTree `json:"values"`
	SavedAt time.Time          `json:"savedAt"`
}

// Store persists drafts. Implementations are safe for concurrent use.
type Store interface {
	Save(ctx context.Context, key Key, values metadata.ValueTree) error
	Load(ctx context.Context, key Key) (Draft, error)
	Delete(ctx context.Context, key Key) error
}

// MemoryStore keeps drafts in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
	now    func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string]Draft),
		now:    time.Now,
	}
}

// Save stores a copy of values under key, replacing any previous draft.
func (s *MemoryStore) Save(ctx context.Context, key Key, values metadata.ValueTree) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[key.String()] = Draft{
		Key:     key,
		Values:  metadata.CloneTree(values),
		SavedAt: s.now().UTC(),
	}
	return nil
}

// Load returns a copy of the draft stored under key.
func (s *MemoryStore) Load(ctx context.Context, key Key) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	if err := key.Validate(); err != nil {
		return Draft{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[key.String()]
	if !ok {
		return Draft{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	draft.Values = metadata.CloneTree(draft.Values)
	return draft, nil
}

// Delete removes the draft stored under key. Deleting a missing draft is not
// an error.
func (s *MemoryStore) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := key.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key.String())
	return nil
}

// Len reports how many drafts are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}
