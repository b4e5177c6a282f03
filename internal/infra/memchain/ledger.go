// internal/infra/memchain/ledger.go
package memchain

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"

	"autoverify/internal/application/inspection"
	"autoverify/internal/application/mint"
)

// Ledger collaborator semantics: mint accounts, holding accounts, unit
// accounting. All records live under the token program's ownership.

func (s *session) CreateAsset(ctx context.Context, asset common.PublicKey, decimals uint8,
	mintAuthority common.PublicKey, freezeAuthority *common.PublicKey) error {
	if err := s.charge(costCreateAsset); err != nil {
		return err
	}
	// Security policy: an asset without a freeze authority can never be
	// frozen out of a compromised holding, so the ledger refuses it.
	if freezeAuthority == nil {
		return fmt.Errorf("%w: asset %s", mint.ErrFreezeAuthorityRequired, asset.ToBase58())
	}
	if rec, ok := s.lookup(asset); ok && len(rec.data) > 0 {
		return fmt.Errorf("%w: %s", mint.ErrAssetAlreadyExists, asset.ToBase58())
	}
	freeze := *freezeAuthority
	raw, err := encodeRecord(mintRecord{
		Decimals:        decimals,
		Supply:          0,
		MintAuthority:   mintAuthority,
		FreezeAuthority: &freeze,
	})
	if err != nil {
		return err
	}
	s.put(asset, record{owner: common.TokenProgramID, data: raw})
	return nil
}

func (s *session) CreateHoldingAccount(ctx context.Context, owner, asset common.PublicKey) (common.PublicKey, error) {
	if err := s.charge(costCreateHolding); err != nil {
		return common.PublicKey{}, err
	}
	addr, _, err := common.FindAssociatedTokenAddress(owner, asset)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("memchain: holding address: %w", err)
	}
	if rec, ok := s.lookup(addr); ok && len(rec.data) > 0 {
		return common.PublicKey{}, fmt.Errorf("%w: holding %s", inspection.ErrAlreadyInitialized, addr.ToBase58())
	}
	raw, err := encodeRecord(holdingRecord{Mint: asset, Owner: owner, Amount: 0})
	if err != nil {
		return common.PublicKey{}, err
	}
	s.put(addr, record{owner: common.TokenProgramID, data: raw})
	return addr, nil
}

func (s *session) MintUnits(ctx context.Context, asset, destination common.PublicKey, amount uint64) error {
	if err := s.charge(costMintUnits); err != nil {
		return err
	}
	mintRec, ok := s.lookup(asset)
	if !ok {
		return fmt.Errorf("%w: mint %s does not exist", inspection.ErrOwnershipMismatch, asset.ToBase58())
	}
	var m mintRecord
	if err := decodeRecord(mintRec.data, &m); err != nil {
		return err
	}
	holdRec, ok := s.lookup(destination)
	if !ok {
		return fmt.Errorf("%w: holding %s does not exist", inspection.ErrOwnershipMismatch, destination.ToBase58())
	}
	var h holdingRecord
	if err := decodeRecord(holdRec.data, &h); err != nil {
		return err
	}
	if h.Mint != asset {
		return fmt.Errorf("%w: holding %s is for a different asset", inspection.ErrOwnershipMismatch, destination.ToBase58())
	}

	m.Supply += amount
	h.Amount += amount

	rawMint, err := encodeRecord(m)
	if err != nil {
		return err
	}
	rawHold, err := encodeRecord(h)
	if err != nil {
		return err
	}
	s.put(asset, record{owner: mintRec.owner, data: rawMint})
	s.put(destination, record{owner: holdRec.owner, data: rawHold})
	return nil
}
