package state

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"markethub/internal/adapters/persistence"
	"markethub/internal/core/domain"
)

// Container owns the authoritative in-memory State Document. Every
// mutation runs through Update, which applies the change to a copy and
// persists the full document before the copy becomes current, so a
// failed mutation or a failed write leaves the document untouched.
type Container struct {
	mu    sync.Mutex
	doc   *domain.State
	store persistence.Store
}

// Load restores the State Document from the store, or installs the
// document produced by seed when the store is empty or unparseable.
func Load(ctx context.Context, store persistence.Store, seed func() *domain.State) (*Container, error) {
	c := &Container{store: store}

	blob, err := store.Get(ctx, domain.StateKey)
	if err != nil {
		return nil, err
	}

	if blob != nil {
		doc := &domain.State{}
		if err := json.Unmarshal(blob, doc); err == nil {
			doc.Normalize()
			c.doc = doc
			log.Println("✅ State document restored from store")
			return c, nil
		}
		log.Println("⚠️ Stored state document is corrupt, starting fresh")
	}

	c.doc = seed()
	c.doc.Normalize()
	if err := c.persist(ctx, c.doc); err != nil {
		return nil, err
	}
	log.Println("🌱 Seeded fresh state document")
	return c, nil
}

// View runs fn against a copy of the current document. Readers can
// never mutate shared state.
func (c *Container) View(fn func(s *domain.State)) {
	c.mu.Lock()
	doc := c.doc.Clone()
	c.mu.Unlock()
	fn(doc)
}

// Update applies fn to a copy of the document and, when fn succeeds,
// persists the result and makes it current. Mutation and store write
// are one atomic step from the caller's perspective.
func (c *Container) Update(ctx context.Context, fn func(s *domain.State) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.doc.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := c.persist(ctx, next); err != nil {
		return err
	}
	c.doc = next
	return nil
}

// ForceLogout patches the persisted document to a logged-out session
// without going through the in-memory state: a read-modify-write of the
// store alone, run on application teardown.
func (c *Container) ForceLogout(ctx context.Context) error {
	blob, err := c.store.Get(ctx, domain.StateKey)
	if err != nil || blob == nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return err
	}
	raw["isLoggedIn"], _ = json.Marshal(false)
	raw["currentUser"], _ = json.Marshal(nil)

	patched, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, domain.StateKey, patched)
}

func (c *Container) persist(ctx context.Context, doc *domain.State) error {
	blob, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, domain.StateKey, blob)
}
