// internal/application/mint/ports.go
package mint

import (
	"context"
	"errors"

	"github.com/blocto/solana-go-sdk/common"

	"autoverify/internal/application/inspection"
	"autoverify/internal/domain/authority"
	"autoverify/internal/domain/token"
)

var (
	ErrAssetAlreadyExists          = errors.New("mint: asset identifier already exists")
	ErrCollectionAuthorityMismatch = errors.New("mint: collection authority mismatch")
	ErrFreezeAuthorityRequired     = errors.New("mint: freeze authority must be set")
)

// CollectionRef is the membership pointer embedded in an asset's metadata
// record. It starts unverified; only a successful attestation flips it.
type CollectionRef struct {
	Key      common.PublicKey
	Verified bool
}

// ============================================================
// Collaborator ports
// ============================================================

// Ledger is the fungible/non-fungible ledger collaborator. Balance accounting
// and rent live behind it; this module only drives it.
type Ledger interface {
	// CreateAsset initializes a fresh mint. A nil freeze authority is a
	// security-policy violation and is rejected.
	CreateAsset(ctx context.Context, asset common.PublicKey, decimals uint8,
		mintAuthority common.PublicKey, freezeAuthority *common.PublicKey) error

	// CreateHoldingAccount creates owner's holding account for asset and
	// returns its address.
	CreateHoldingAccount(ctx context.Context, owner, asset common.PublicKey) (common.PublicKey, error)

	// MintUnits mints amount units of asset into destination.
	MintUnits(ctx context.Context, asset, destination common.PublicKey, amount uint64) error
}

// Registry is the metadata-registry collaborator that stores name/symbol/URI
// records, edition records and membership attestations.
type Registry interface {
	// CreateMetadata writes the metadata record for asset. When
	// authorityIsDerived is set, updateAuthority is a derived collection
	// authority and the registry binds the collection to it exclusively.
	CreateMetadata(ctx context.Context, asset common.PublicKey, data token.Metadata,
		updateAuthority common.PublicKey, authorityIsDerived bool, collection *CollectionRef) error

	// CreateEditionRecord writes the edition record for asset. A nil
	// maxSupply means no further editions.
	CreateEditionRecord(ctx context.Context, asset common.PublicKey, maxSupply *uint64) error

	// VerifyCollectionMember marks asset's collection reference verified.
	// The registry accepts authorizing only if re-deriving proof reproduces
	// it and it equals the collection's recorded controlling authority.
	VerifyCollectionMember(ctx context.Context, asset, collectionAsset common.PublicKey,
		authorizing common.PublicKey, proof authority.Proof) error
}

// Session is the collaborator surface one step runs against inside an atomic
// operation. Signers exposes the operation's approved principals so the
// registry can enforce creator self-verification.
type Session interface {
	Ledger
	Registry
	Signers() []common.PublicKey
}

// Environment submits operations for atomic execution: every step commits or
// none does, and nothing in between is ever observable.
type Environment interface {
	inspection.View
	Execute(ctx context.Context, op *Operation) (*Receipt, error)
}
