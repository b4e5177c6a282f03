// internal/domain/collection/entity.go
package collection

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"

	"autoverify/internal/domain/authority"
)

// Collection is the durable identity of one attestable group of assets:
// a caller-chosen seed, the base asset (mint) created at bootstrap, the
// registry records hanging off that mint, and the derived authority that
// is the collection's sole controlling principal.
type Collection struct {
	Seed      string
	BaseAsset common.PublicKey
	Metadata  common.PublicKey
	Edition   common.PublicKey
	Authority authority.Authority
}

// Resolve computes the full account picture of a collection from its seed and
// base asset. Pure address math: it does not consult any state, so anyone can
// run it and arrive at the same addresses.
func Resolve(seed string, baseAsset common.PublicKey, program common.PublicKey) (Collection, error) {
	auth, err := authority.Derive(seed, program)
	if err != nil {
		return Collection{}, err
	}
	meta, err := token_metadata.GetTokenMetaPubkey(baseAsset)
	if err != nil {
		return Collection{}, fmt.Errorf("collection: metadata address for %s: %w", baseAsset.ToBase58(), err)
	}
	edition, err := token_metadata.GetMasterEdition(baseAsset)
	if err != nil {
		return Collection{}, fmt.Errorf("collection: edition address for %s: %w", baseAsset.ToBase58(), err)
	}
	return Collection{
		Seed:      seed,
		BaseAsset: baseAsset,
		Metadata:  meta,
		Edition:   edition,
		Authority: auth,
	}, nil
}
