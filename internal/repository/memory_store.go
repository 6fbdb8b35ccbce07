package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"innercloset/gatekeeper/internal/model"
)

// MemoryStore keeps every table in process memory behind a single lock.
// It backs local development (database.backend: memory) and the service
// tests; redemption holds the write lock across the existence check, the
// cap check and the increment, which gives the same guarantees as the
// postgres transaction.
type MemoryStore struct {
	mu       sync.RWMutex
	codes    map[uuid.UUID]model.InviteCode
	grants   map[uuid.UUID]model.AccessGrant
	curators map[uuid.UUID]model.Curator
	drops    map[uuid.UUID]model.Drop
	products []model.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		codes:    make(map[uuid.UUID]model.InviteCode),
		grants:   make(map[uuid.UUID]model.AccessGrant),
		curators: make(map[uuid.UUID]model.Curator),
		drops:    make(map[uuid.UUID]model.Drop),
	}
}

// PutCurator seeds a catalog row.
func (s *MemoryStore) PutCurator(c model.Curator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.curators[c.ID] = c
}

func (s *MemoryStore) PutDrop(d model.Drop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drops[d.ID] = d
}

func (s *MemoryStore) PutProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
}

// Codes returns an InviteCodeRepository view of the store.
func (s *MemoryStore) Codes() InviteCodeRepository { return memCodes{s} }

func (s *MemoryStore) Grants() AccessGrantRepository { return memGrants{s} }

func (s *MemoryStore) Curators() CuratorRepository { return memCurators{s} }

func (s *MemoryStore) Products() ProductRepository { return memProducts{s} }

type memCodes struct{ s *MemoryStore }

func (r memCodes) Create(ctx context.Context, code *model.InviteCode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.codes {
		if existing.Code == code.Code {
			return ErrDuplicateCode
		}
	}
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	r.s.codes[code.ID] = *code
	return nil
}

func (r memCodes) GetByCode(ctx context.Context, code string) (*model.InviteCode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.codes {
		if c.Code == code {
			found := c
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r memCodes) List(ctx context.Context, curatorID *uuid.UUID) ([]model.InviteCode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.InviteCode, 0, len(r.s.codes))
	for _, c := range r.s.codes {
		if curatorID != nil && c.CuratorID != *curatorID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memCodes) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.codes[id]
	if !ok {
		return ErrNotFound
	}
	c.IsActive = false
	r.s.codes[id] = c
	return nil
}

type memGrants struct{ s *MemoryStore }

func (r memGrants) Redeem(ctx context.Context, grant *model.AccessGrant) (*model.AccessGrant, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, g := range r.s.grants {
		if g.UserID == grant.UserID && g.CodeID == grant.CodeID {
			existing := g
			return &existing, false, nil
		}
	}

	code, ok := r.s.codes[grant.CodeID]
	if !ok || !code.IsActive || code.Exhausted() {
		return nil, false, ErrCodeExhausted
	}
	code.UsedCount++
	r.s.codes[code.ID] = code

	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}
	r.s.grants[grant.ID] = *grant
	stored := *grant
	return &stored, true, nil
}

func (r memGrants) GetByID(ctx context.Context, id uuid.UUID) (*model.AccessGrant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	g, ok := r.s.grants[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (r memGrants) GetByUserAndCode(ctx context.Context, userID string, codeID uuid.UUID) (*model.AccessGrant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, g := range r.s.grants {
		if g.UserID == userID && g.CodeID == codeID {
			found := g
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r memGrants) LatestForUser(ctx context.Context, userID string, curatorID *uuid.UUID) (*model.AccessGrant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var latest *model.AccessGrant
	for _, g := range r.s.grants {
		if g.UserID != userID {
			continue
		}
		if curatorID != nil && g.CuratorID != *curatorID {
			continue
		}
		if latest == nil || g.GrantedAt.After(latest.GrantedAt) {
			found := g
			latest = &found
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (r memGrants) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.grants[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.grants, id)
	return nil
}

type memCurators struct{ s *MemoryStore }

func (r memCurators) GetByID(ctx context.Context, id uuid.UUID) (*model.Curator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.curators[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

type memProducts struct{ s *MemoryStore }

func (r memProducts) ListByCurator(ctx context.Context, curatorID uuid.UUID) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Product
	for _, p := range r.s.products {
		if p.CuratorID != curatorID {
			continue
		}
		if p.DropID != nil {
			if d, ok := r.s.drops[*p.DropID]; ok {
				p.Drop = &d
			}
		}
		out = append(out, p)
	}
	return out, nil
}
