// internal/infra/memchain/registry.go
package memchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"

	"autoverify/internal/application/inspection"
	"autoverify/internal/application/mint"
	"autoverify/internal/domain/authority"
	"autoverify/internal/domain/token"
)

// ErrNoCollectionReference is a registry-side rejection: the asset's metadata
// does not point at the collection the attestation names.
var ErrNoCollectionReference = errors.New("memchain: metadata does not reference the collection")

// Metadata-registry collaborator semantics: metadata records, edition
// records, and the membership attestation with its re-derivation check.

func (s *session) CreateMetadata(ctx context.Context, asset common.PublicKey, data token.Metadata,
	updateAuthority common.PublicKey, authorityIsDerived bool, collection *mint.CollectionRef) error {
	if err := s.charge(costCreateMetadata); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	// The registry never trusts a verified flag the signer set cannot back.
	if err := data.ValidateCreatorSigners(s.signers); err != nil {
		return err
	}

	addr, err := token_metadata.GetTokenMetaPubkey(asset)
	if err != nil {
		return fmt.Errorf("memchain: metadata address: %w", err)
	}
	if rec, ok := s.lookup(addr); ok && len(rec.data) > 0 {
		return fmt.Errorf("%w: metadata %s", inspection.ErrAlreadyInitialized, addr.ToBase58())
	}
	if authorityIsDerived {
		if err := s.bindCollection(updateAuthority, asset); err != nil {
			return err
		}
	}

	md := metadataRecord{
		UpdateAuthority:  updateAuthority,
		Mint:             asset,
		AuthorityDerived: authorityIsDerived,
		Data: dataRecord{
			Name:                 data.Name,
			Symbol:               data.Symbol,
			URI:                  data.URI,
			SellerFeeBasisPoints: data.RoyaltyBasisPoints,
			Creators:             toCreatorRecords(data.Creators),
		},
	}
	if collection != nil {
		md.Collection = &collectionPointer{Verified: collection.Verified, Key: collection.Key}
	}
	raw, err := encodeRecord(md)
	if err != nil {
		return err
	}
	s.put(addr, record{owner: common.MetaplexTokenMetaProgramID, data: raw})
	return nil
}

func (s *session) CreateEditionRecord(ctx context.Context, asset common.PublicKey, maxSupply *uint64) error {
	if err := s.charge(costCreateEdition); err != nil {
		return err
	}
	addr, err := token_metadata.GetMasterEdition(asset)
	if err != nil {
		return fmt.Errorf("memchain: edition address: %w", err)
	}
	if rec, ok := s.lookup(addr); ok && len(rec.data) > 0 {
		return fmt.Errorf("%w: edition %s", inspection.ErrAlreadyInitialized, addr.ToBase58())
	}
	raw, err := encodeRecord(editionRecord{MaxSupply: maxSupply})
	if err != nil {
		return err
	}
	s.put(addr, record{owner: common.MetaplexTokenMetaProgramID, data: raw})
	return nil
}

func (s *session) VerifyCollectionMember(ctx context.Context, asset, collectionAsset common.PublicKey,
	authorizing common.PublicKey, proof authority.Proof) error {
	if err := s.charge(costVerifyMember); err != nil {
		return err
	}

	colAddr, err := token_metadata.GetTokenMetaPubkey(collectionAsset)
	if err != nil {
		return fmt.Errorf("memchain: collection metadata address: %w", err)
	}
	colRec, ok := s.lookup(colAddr)
	if !ok || len(colRec.data) == 0 {
		return fmt.Errorf("%w: collection %s has no metadata", mint.ErrCollectionAuthorityMismatch, collectionAsset.ToBase58())
	}
	var colMD metadataRecord
	if err := decodeRecord(colRec.data, &colMD); err != nil {
		return err
	}
	if colMD.UpdateAuthority != authorizing {
		return fmt.Errorf("%w: recorded %s, presented %s",
			mint.ErrCollectionAuthorityMismatch, colMD.UpdateAuthority.ToBase58(), authorizing.ToBase58())
	}
	// The structural check: re-derive from the proof's public inputs and
	// demand the result equals the presented authority. No signature exists
	// or is needed; only the program invoked with the right seed can pass.
	if !authority.Confirm(proof, authorizing, s.chain.program) {
		return fmt.Errorf("%w: proof does not re-derive %s",
			mint.ErrCollectionAuthorityMismatch, authorizing.ToBase58())
	}

	assetAddr, err := token_metadata.GetTokenMetaPubkey(asset)
	if err != nil {
		return fmt.Errorf("memchain: asset metadata address: %w", err)
	}
	assetRec, ok := s.lookup(assetAddr)
	if !ok || len(assetRec.data) == 0 {
		return fmt.Errorf("%w: asset %s has no metadata", ErrNoCollectionReference, asset.ToBase58())
	}
	var assetMD metadataRecord
	if err := decodeRecord(assetRec.data, &assetMD); err != nil {
		return err
	}
	if assetMD.Collection == nil || assetMD.Collection.Key != collectionAsset {
		return fmt.Errorf("%w: asset %s", ErrNoCollectionReference, asset.ToBase58())
	}

	assetMD.Collection.Verified = true
	raw, err := encodeRecord(assetMD)
	if err != nil {
		return err
	}
	s.put(assetAddr, record{owner: assetRec.owner, data: raw})
	return nil
}

func toCreatorRecords(creators []token.Creator) []creatorRecord {
	out := make([]creatorRecord, 0, len(creators))
	for _, c := range creators {
		out = append(out, creatorRecord{Address: c.Address, Verified: c.Verified, Share: c.Share})
	}
	return out
}
