// internal/domain/authority/deriver.go
package authority

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/blocto/solana-go-sdk/common"
)

// DomainTag is the fixed namespace every collection authority is derived under.
// Changing it would re-key every collection, so it is a constant, not config.
const DomainTag = "collection_authority"

// MaxSeedLength bounds caller-chosen collection seeds.
const MaxSeedLength = 32

// DefaultProgramID is the deployed identity of the auto-verify program.
var DefaultProgramID = common.PublicKeyFromString("avnQdm8yHVaiRt6nGuVWnUhzUnEbqcRN5v3cMATrV2X")

var ErrInvalidSeed = errors.New("authority: invalid collection seed")

var seedRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateSeed enforces the seed contract: non-empty, at most MaxSeedLength
// bytes, alphanumeric/underscore only.
func ValidateSeed(seed string) error {
	if seed == "" || len(seed) > MaxSeedLength || !seedRe.MatchString(seed) {
		return fmt.Errorf("%w: %q", ErrInvalidSeed, seed)
	}
	return nil
}

// Authority is the program-controlled address that governs one collection.
// It is not a keypair: the address is guaranteed to lie off the ed25519 curve,
// so no private key for it can exist. Factor is the disambiguation byte the
// derivation search settled on.
type Authority struct {
	Address common.PublicKey
	Factor  uint8
}

// Proof carries the public inputs a callee needs to re-derive an Authority
// and confirm it matches a claimed address. It is not a signature.
type Proof struct {
	Seed   string
	Factor uint8
}

// Derive computes the authority for seed under program. Deterministic: the
// same seed always produces the same address, for every caller, forever.
func Derive(seed string, program common.PublicKey) (Authority, error) {
	if err := ValidateSeed(seed); err != nil {
		return Authority{}, err
	}
	addr, factor, err := common.FindProgramAddress(
		[][]byte{[]byte(DomainTag), []byte(seed)},
		program,
	)
	if err != nil {
		return Authority{}, fmt.Errorf("authority: derive %q: %w", seed, err)
	}
	return Authority{Address: addr, Factor: factor}, nil
}

// Proof binds the authority's factor to the seed it was derived from.
func (a Authority) Proof(seed string) Proof {
	return Proof{Seed: seed, Factor: a.Factor}
}

// Confirm re-derives the address from proof and reports whether it equals the
// claimed address. This re-derivation check is how a callee accepts the
// authority without any signature: only an invocation holding the right seed
// and factor can produce a matching off-curve address.
func Confirm(proof Proof, address common.PublicKey, program common.PublicKey) bool {
	if ValidateSeed(proof.Seed) != nil {
		return false
	}
	derived, err := common.CreateProgramAddress(
		[][]byte{[]byte(DomainTag), []byte(proof.Seed), {proof.Factor}},
		program,
	)
	if err != nil {
		return false
	}
	return derived == address
}
