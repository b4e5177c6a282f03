// internal/infra/memchain/chain.go
package memchain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/google/uuid"

	"autoverify/internal/application/budget"
	"autoverify/internal/application/inspection"
	"autoverify/internal/application/mint"
	"autoverify/internal/domain/authority"
)

// Execution-unit charges per collaborator call. The composed operations run
// well past the 200k default, which is exactly why the planner requests a
// bigger ceiling up front.
const (
	costCreateAsset    = 45_000
	costCreateHolding  = 30_000
	costMintUnits      = 25_000
	costCreateMetadata = 60_000
	costCreateEdition  = 50_000
	costVerifyMember   = 55_000
)

type record struct {
	owner common.PublicKey
	data  []byte
}

// Chain is an in-memory execution environment: an account space plus an
// atomic executor for composed operations. It implements both collaborator
// ports against that account space, so the full bootstrap/mint-and-attest
// protocol can run and be observed without a cluster.
type Chain struct {
	mu      sync.RWMutex
	program common.PublicKey

	accounts map[common.PublicKey]record
	// collections binds each derived authority to the one collection base
	// asset it controls. One authority, one collection, forever.
	collections map[common.PublicKey]common.PublicKey
}

func New(program common.PublicKey) *Chain {
	if program == (common.PublicKey{}) {
		program = authority.DefaultProgramID
	}
	return &Chain{
		program:     program,
		accounts:    make(map[common.PublicKey]record),
		collections: make(map[common.PublicKey]common.PublicKey),
	}
}

// Account implements inspection.View.
func (c *Chain) Account(key common.PublicKey) (inspection.Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.accounts[key]
	if !ok {
		return inspection.Info{}, false
	}
	return inspection.Info{Owner: rec.owner, DataLen: len(rec.data)}, true
}

// Len reports how many accounts hold data. Test helper.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.accounts)
}

type lockedView struct{ c *Chain }

func (v lockedView) Account(key common.PublicKey) (inspection.Info, bool) {
	rec, ok := v.c.accounts[key]
	if !ok {
		return inspection.Info{}, false
	}
	return inspection.Info{Owner: rec.owner, DataLen: len(rec.data)}, true
}

// Execute runs op as one atomic unit: budget check, account invariant
// validation, then every step against a staged copy of the account space.
// The staging commits only if all steps succeed; a failure anywhere leaves
// the chain exactly as it was.
func (c *Chain) Execute(ctx context.Context, op *mint.Operation) (*mint.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if op.Budget.Units > budget.MaxUnitLimit {
		return nil, fmt.Errorf("%w: requested %d", budget.ErrBudgetPlanInfeasible, op.Budget.Units)
	}
	if err := inspection.Validate(lockedView{c}, op.AccountRefs(), op.Signers); err != nil {
		return nil, err
	}

	s := &session{
		chain:   c,
		staged:  make(map[common.PublicKey]record),
		signers: op.Signers,
		limit:   uint64(op.Budget.Units),
	}

	var executed []string
	for _, st := range op.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := st.Run(ctx, s); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op.Label, st.Name, err)
		}
		executed = append(executed, st.Name)
	}

	for key, rec := range s.staged {
		c.accounts[key] = rec
	}
	for auth, base := range s.stagedCollections {
		c.collections[auth] = base
	}

	return &mint.Receipt{
		ID:             uuid.NewString(),
		Label:          op.Label,
		Steps:          executed,
		UnitsRequested: op.Budget.Units,
		UnitsConsumed:  s.consumed,
		ExecutedAt:     time.Now().UTC(),
	}, nil
}

// session is the staged collaborator surface steps run against. Reads fall
// through to the committed account space; writes land in the stage.
type session struct {
	chain             *Chain
	staged            map[common.PublicKey]record
	stagedCollections map[common.PublicKey]common.PublicKey
	signers           []common.PublicKey
	limit             uint64
	consumed          uint64
}

func (s *session) Signers() []common.PublicKey { return s.signers }

func (s *session) charge(units uint64) error {
	s.consumed += units
	if s.consumed > s.limit {
		return fmt.Errorf("%w: consumed %d of %d", budget.ErrBudgetExceeded, s.consumed, s.limit)
	}
	return nil
}

func (s *session) lookup(key common.PublicKey) (record, bool) {
	if rec, ok := s.staged[key]; ok {
		return rec, true
	}
	rec, ok := s.chain.accounts[key]
	return rec, ok
}

func (s *session) put(key common.PublicKey, rec record) {
	s.staged[key] = rec
}

func (s *session) bindCollection(auth, base common.PublicKey) error {
	if existing, ok := s.chain.collections[auth]; ok && existing != base {
		return fmt.Errorf("%w: authority %s already controls %s",
			inspection.ErrAlreadyInitialized, auth.ToBase58(), existing.ToBase58())
	}
	if s.stagedCollections == nil {
		s.stagedCollections = make(map[common.PublicKey]common.PublicKey)
	}
	s.stagedCollections[auth] = base
	return nil
}
