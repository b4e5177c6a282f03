// internal/application/mint/operation.go
package mint

import (
	"context"
	"time"

	"github.com/blocto/solana-go-sdk/common"

	"autoverify/internal/application/budget"
	"autoverify/internal/application/inspection"
)

// Step is one instruction of an atomic operation: a name for receipts, the
// account roles it touches, and the collaborator call it performs.
type Step struct {
	Name     string
	Accounts []inspection.Ref
	Run      func(ctx context.Context, s Session) error
}

// Operation is the unit of execution handed to the environment. Ordering of
// Steps is fixed and sequential.
type Operation struct {
	Label    string
	FeePayer common.PublicKey
	Signers  []common.PublicKey
	Budget   budget.Plan
	Steps    []Step
}

// AccountRefs flattens the declared account roles of all steps, deduplicated
// by key with privileges merged, so the validator sees each account once with
// the strongest requirement any step places on it.
func (op *Operation) AccountRefs() []inspection.Ref {
	var out []inspection.Ref
	index := make(map[common.PublicKey]int)
	for _, st := range op.Steps {
		for _, r := range st.Accounts {
			i, seen := index[r.Key]
			if !seen {
				index[r.Key] = len(out)
				out = append(out, r)
				continue
			}
			if r.Writable {
				out[i].Writable = true
			}
			if r.Signer {
				out[i].Signer = true
			}
			if r.Intent == inspection.IntentWrite && out[i].Intent == inspection.IntentRead {
				out[i].Intent = inspection.IntentWrite
			}
		}
	}
	return out
}

// Receipt is the execution record the environment returns on commit.
type Receipt struct {
	ID             string
	Label          string
	Steps          []string
	UnitsRequested uint32
	UnitsConsumed  uint64
	ExecutedAt     time.Time
}
