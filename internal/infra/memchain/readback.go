// internal/infra/memchain/readback.go
package memchain

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"

	"autoverify/internal/application/mint"
	"autoverify/internal/domain/token"
)

// MetadataView is the decoded registry record for one asset, as a third
// party reading the chain would see it.
type MetadataView struct {
	UpdateAuthority  common.PublicKey
	AuthorityDerived bool
	Data             token.Metadata
	Collection       *mint.CollectionRef
}

// Attested reports whether the record carries a verified collection pointer.
func (v *MetadataView) Attested() bool {
	return v.Collection != nil && v.Collection.Verified
}

// Metadata decodes the metadata record of assetMint, if any.
func (c *Chain) Metadata(assetMint common.PublicKey) (*MetadataView, bool) {
	addr, err := token_metadata.GetTokenMetaPubkey(assetMint)
	if err != nil {
		return nil, false
	}
	c.mu.RLock()
	rec, ok := c.accounts[addr]
	c.mu.RUnlock()
	if !ok || len(rec.data) == 0 {
		return nil, false
	}
	var md metadataRecord
	if err := decodeRecord(rec.data, &md); err != nil {
		return nil, false
	}
	view := &MetadataView{
		UpdateAuthority:  md.UpdateAuthority,
		AuthorityDerived: md.AuthorityDerived,
		Data: token.Metadata{
			Name:               md.Data.Name,
			Symbol:             md.Data.Symbol,
			URI:                md.Data.URI,
			RoyaltyBasisPoints: md.Data.SellerFeeBasisPoints,
		},
	}
	for _, cr := range md.Data.Creators {
		view.Data.Creators = append(view.Data.Creators, token.Creator{
			Address: cr.Address, Verified: cr.Verified, Share: cr.Share,
		})
	}
	if md.Collection != nil {
		view.Collection = &mint.CollectionRef{Key: md.Collection.Key, Verified: md.Collection.Verified}
	}
	return view, true
}

// Balance reports the unit balance of owner's holding account for assetMint.
func (c *Chain) Balance(owner, assetMint common.PublicKey) uint64 {
	addr, _, err := common.FindAssociatedTokenAddress(owner, assetMint)
	if err != nil {
		return 0
	}
	c.mu.RLock()
	rec, ok := c.accounts[addr]
	c.mu.RUnlock()
	if !ok {
		return 0
	}
	var h holdingRecord
	if err := decodeRecord(rec.data, &h); err != nil {
		return 0
	}
	return h.Amount
}
