// internal/domain/asset/entity.go
package asset

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
)

// Asset is one minted member of a collection: the fresh mint identifier, the
// owner's holding account, the registry records, and the collection it claims
// membership of. Attested flips to true only inside the atomic operation that
// created the records; there is no later path to set it.
type Asset struct {
	Mint       common.PublicKey
	Holding    common.PublicKey
	Metadata   common.PublicKey
	Edition    common.PublicKey
	Owner      common.PublicKey
	Collection common.PublicKey
	Attested   bool
}

// Resolve computes the account picture for a prospective asset. Like the
// collection resolver this is pure address math over public inputs.
func Resolve(mint, owner, collectionBase common.PublicKey) (Asset, error) {
	holding, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return Asset{}, fmt.Errorf("asset: holding address for %s: %w", mint.ToBase58(), err)
	}
	meta, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return Asset{}, fmt.Errorf("asset: metadata address for %s: %w", mint.ToBase58(), err)
	}
	edition, err := token_metadata.GetMasterEdition(mint)
	if err != nil {
		return Asset{}, fmt.Errorf("asset: edition address for %s: %w", mint.ToBase58(), err)
	}
	return Asset{
		Mint:       mint,
		Holding:    holding,
		Metadata:   meta,
		Edition:    edition,
		Owner:      owner,
		Collection: collectionBase,
	}, nil
}
