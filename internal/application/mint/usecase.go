// internal/application/mint/usecase.go
package mint

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"

	"autoverify/internal/application/budget"
	"autoverify/internal/application/inspection"
	"autoverify/internal/domain/asset"
	"autoverify/internal/domain/authority"
	"autoverify/internal/domain/collection"
	"autoverify/internal/domain/token"
)

// Usecase composes the two caller-facing operations against an execution
// environment. It holds no mutable state of its own; everything it writes
// goes through the atomic operations it hands to the environment.
type Usecase struct {
	env     Environment
	program common.PublicKey
}

func NewUsecase(env Environment, program common.PublicKey) *Usecase {
	if program == (common.PublicKey{}) {
		program = authority.DefaultProgramID
	}
	return &Usecase{env: env, program: program}
}

// Program reports the program identity derivations run under.
func (u *Usecase) Program() common.PublicKey { return u.program }

// ============================================================
// Collection bootstrap
// ============================================================

// BootstrapInput is the account/principal set for the one-time collection
// setup. Metadata carries display fields only; the creator list is fixed to
// the admin by the operation itself.
type BootstrapInput struct {
	Admin          common.PublicKey
	Seed           string
	CollectionMint common.PublicKey
	Metadata       token.Metadata
}

type BootstrapResult struct {
	Collection collection.Collection
	Holding    common.PublicKey
	Receipt    *Receipt
}

// BootstrapCollection creates the collection's base asset, mints its single
// unit to the admin, and writes metadata whose controlling authority is the
// derived collection authority rather than the admin. From then on only this
// program, re-deriving that address, can authorize membership attestations.
func (u *Usecase) BootstrapCollection(ctx context.Context, in BootstrapInput) (*BootstrapResult, error) {
	col, err := collection.Resolve(in.Seed, in.CollectionMint, u.program)
	if err != nil {
		return nil, err
	}

	md := in.Metadata
	// The admin signs the bootstrap, so self-verification is legitimate here.
	md.Creators = []token.Creator{{Address: in.Admin, Verified: true, Share: 100}}
	if err := md.Validate(); err != nil {
		return nil, err
	}

	holding, _, err := common.FindAssociatedTokenAddress(in.Admin, in.CollectionMint)
	if err != nil {
		return nil, fmt.Errorf("mint: admin holding address: %w", err)
	}

	plan, err := budget.ForOperation(4, budget.ClassComposite)
	if err != nil {
		return nil, err
	}

	adminMint := in.CollectionMint
	adminKey := in.Admin
	tokenOwner := common.TokenProgramID
	metaOwner := common.MetaplexTokenMetaProgramID

	adminRef := inspection.Ref{Name: "admin", Key: adminKey, Intent: inspection.IntentAuthorize, Signer: true, Writable: true}
	var zero uint64

	op := &Operation{
		Label:    "bootstrap-collection:" + in.Seed,
		FeePayer: in.Admin,
		Signers:  []common.PublicKey{in.Admin},
		Budget:   plan,
		Steps: []Step{
			{
				Name: "create-base-asset",
				Accounts: []inspection.Ref{
					adminRef,
					{Name: "collection_mint", Key: adminMint, Intent: inspection.IntentCreate, Writable: true},
				},
				Run: func(ctx context.Context, s Session) error {
					freeze := adminKey
					return s.CreateAsset(ctx, adminMint, 0, adminKey, &freeze)
				},
			},
			{
				Name: "mint-unit-to-admin",
				Accounts: []inspection.Ref{
					{Name: "admin_holding", Key: holding, Intent: inspection.IntentCreate, Writable: true},
					{Name: "collection_mint", Key: adminMint, Intent: inspection.IntentWrite, Writable: true, Owner: &tokenOwner},
				},
				Run: func(ctx context.Context, s Session) error {
					dest, err := s.CreateHoldingAccount(ctx, adminKey, adminMint)
					if err != nil {
						return err
					}
					return s.MintUnits(ctx, adminMint, dest, 1)
				},
			},
			{
				Name: "create-collection-metadata",
				Accounts: []inspection.Ref{
					{Name: "collection_metadata", Key: col.Metadata, Intent: inspection.IntentCreate, Writable: true},
				},
				Run: func(ctx context.Context, s Session) error {
					return s.CreateMetadata(ctx, adminMint, md, col.Authority.Address, true, nil)
				},
			},
			{
				Name: "create-collection-edition",
				Accounts: []inspection.Ref{
					{Name: "collection_edition", Key: col.Edition, Intent: inspection.IntentCreate, Writable: true},
					{Name: "collection_metadata", Key: col.Metadata, Intent: inspection.IntentWrite, Writable: true, Owner: &metaOwner},
				},
				Run: func(ctx context.Context, s Session) error {
					return s.CreateEditionRecord(ctx, adminMint, &zero)
				},
			},
		},
	}

	receipt, err := u.env.Execute(ctx, op)
	if err != nil {
		return nil, err
	}
	return &BootstrapResult{Collection: col, Holding: holding, Receipt: receipt}, nil
}

// ============================================================
// Mint and attest
// ============================================================

// MintInput is the account/principal set for one mint-and-attest call.
// AssetMint must be fresh; Metadata may carry a caller creator list (verified
// entries must sign), or be left empty to default to the user as sole
// verified creator.
type MintInput struct {
	User           common.PublicKey
	Seed           string
	CollectionMint common.PublicKey
	AssetMint      common.PublicKey
	Metadata       token.Metadata
}

type MintResult struct {
	Asset   asset.Asset
	Receipt *Receipt
}

// MintAndAttest creates a new asset, attaches metadata referencing the
// collection, attaches the edition record, and attests membership in one
// atomic operation. The attestation step presents the derived collection
// authority together with its re-derivation proof; no human signer is
// involved at any point.
func (u *Usecase) MintAndAttest(ctx context.Context, in MintInput) (*MintResult, error) {
	col, err := collection.Resolve(in.Seed, in.CollectionMint, u.program)
	if err != nil {
		return nil, err
	}

	md := in.Metadata
	if len(md.Creators) == 0 {
		md.Creators = []token.Creator{{Address: in.User, Verified: true, Share: 100}}
	}
	if err := md.Validate(); err != nil {
		return nil, err
	}
	if err := md.ValidateCreatorSigners([]common.PublicKey{in.User}); err != nil {
		return nil, err
	}

	if info, ok := u.env.Account(in.AssetMint); ok && info.DataLen > 0 {
		return nil, fmt.Errorf("%w: %s", ErrAssetAlreadyExists, in.AssetMint.ToBase58())
	}
	// A collection that was never bootstrapped has no recorded controlling
	// authority, so no derived authority can ever match it.
	if _, ok := u.env.Account(col.Metadata); !ok {
		return nil, fmt.Errorf("%w: collection %q is not bootstrapped", ErrCollectionAuthorityMismatch, in.Seed)
	}

	newAsset, err := asset.Resolve(in.AssetMint, in.User, in.CollectionMint)
	if err != nil {
		return nil, err
	}

	plan, err := budget.ForOperation(4, budget.ClassComposite)
	if err != nil {
		return nil, err
	}

	userKey := in.User
	assetMint := in.AssetMint
	tokenOwner := common.TokenProgramID
	metaOwner := common.MetaplexTokenMetaProgramID
	var zero uint64

	op := &Operation{
		Label:    "mint-and-attest:" + in.Seed,
		FeePayer: in.User,
		Signers:  []common.PublicKey{in.User},
		Budget:   plan,
		Steps: []Step{
			{
				Name: "create-asset",
				Accounts: []inspection.Ref{
					{Name: "user", Key: userKey, Intent: inspection.IntentAuthorize, Signer: true, Writable: true},
					{Name: "asset_mint", Key: assetMint, Intent: inspection.IntentCreate, Writable: true},
					{Name: "user_holding", Key: newAsset.Holding, Intent: inspection.IntentCreate, Writable: true},
				},
				Run: func(ctx context.Context, s Session) error {
					freeze := userKey
					if err := s.CreateAsset(ctx, assetMint, 0, userKey, &freeze); err != nil {
						return err
					}
					dest, err := s.CreateHoldingAccount(ctx, userKey, assetMint)
					if err != nil {
						return err
					}
					return s.MintUnits(ctx, assetMint, dest, 1)
				},
			},
			{
				Name: "create-asset-metadata",
				Accounts: []inspection.Ref{
					{Name: "asset_metadata", Key: newAsset.Metadata, Intent: inspection.IntentCreate, Writable: true},
				},
				Run: func(ctx context.Context, s Session) error {
					ref := &CollectionRef{Key: col.BaseAsset}
					return s.CreateMetadata(ctx, assetMint, md, userKey, false, ref)
				},
			},
			{
				Name: "create-asset-edition",
				Accounts: []inspection.Ref{
					{Name: "asset_edition", Key: newAsset.Edition, Intent: inspection.IntentCreate, Writable: true},
				},
				Run: func(ctx context.Context, s Session) error {
					return s.CreateEditionRecord(ctx, assetMint, &zero)
				},
			},
			{
				Name: "attest-membership",
				Accounts: []inspection.Ref{
					{Name: "collection_mint", Key: col.BaseAsset, Intent: inspection.IntentRead, Owner: &tokenOwner},
					{Name: "collection_metadata", Key: col.Metadata, Intent: inspection.IntentRead, Owner: &metaOwner},
					{Name: "collection_edition", Key: col.Edition, Intent: inspection.IntentRead, Owner: &metaOwner},
					// Only authorizes the registry call, but the callee
					// touches it while it acts as the signer inside that
					// call, so it must be writable at entry.
					{Name: "collection_authority", Key: col.Authority.Address, Intent: inspection.IntentAuthorize, Writable: true},
					{Name: "asset_metadata", Key: newAsset.Metadata, Intent: inspection.IntentWrite, Writable: true},
				},
				Run: func(ctx context.Context, s Session) error {
					return s.VerifyCollectionMember(ctx, assetMint, col.BaseAsset,
						col.Authority.Address, col.Authority.Proof(in.Seed))
				},
			},
		},
	}

	receipt, err := u.env.Execute(ctx, op)
	if err != nil {
		return nil, err
	}
	newAsset.Attested = true
	return &MintResult{Asset: newAsset, Receipt: receipt}, nil
}
