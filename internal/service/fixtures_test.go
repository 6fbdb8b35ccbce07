package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"innercloset/gatekeeper/internal/model"
	"innercloset/gatekeeper/internal/repository"
	"innercloset/gatekeeper/internal/service"
	jwtpkg "innercloset/gatekeeper/pkg/jwt"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

// fakeClock is a settable clock shared by every component of a fixture.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	store     *repository.MemoryStore
	clock     *fakeClock
	curator   model.Curator
	codec     *jwtpkg.Codec
	verifier  service.CodeVerifier
	issuer    service.GrantIssuer
	evaluator service.AccessEvaluator
	invites   service.InviteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	clock := &fakeClock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	curator := model.Curator{ID: uuid.New(), Slug: "mira", DisplayName: "Mira's Closet", IsActive: true}
	store.PutCurator(curator)

	logger := zap.NewNop()
	codec := jwtpkg.NewCodec(testSigningKey, "innercloset", 180*24*time.Hour).WithClock(clock.Now)
	verifier := service.NewCodeVerifier(store.Codes(), store.Curators(), clock.Now, logger)
	return &fixture{
		store:     store,
		clock:     clock,
		curator:   curator,
		codec:     codec,
		verifier:  verifier,
		issuer:    service.NewGrantIssuer(verifier, store.Codes(), store.Grants(), store.Curators(), clock.Now, logger),
		evaluator: service.NewAccessEvaluator(codec, store.Grants(), logger),
		invites:   service.NewInviteService(store.Codes(), store.Grants(), store.Curators(), logger),
	}
}

func (f *fixture) addCode(t *testing.T, code model.InviteCode) model.InviteCode {
	t.Helper()
	if code.CuratorID == uuid.Nil {
		code.CuratorID = f.curator.ID
	}
	code.IsActive = true
	require.NoError(t, f.store.Codes().Create(context.Background(), &code))
	return code
}

func (f *fixture) usedCount(t *testing.T, code string) int {
	t.Helper()
	c, err := f.store.Codes().GetByCode(context.Background(), code)
	require.NoError(t, err)
	return c.UsedCount
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }
