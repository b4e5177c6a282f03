// internal/infra/memchain/records.go
package memchain

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/near/borsh-go"
)

// Account records are held borsh-encoded, the way the real collaborators
// store them, so tests exercise the same serialize/deserialize path a chain
// would.

type mintRecord struct {
	Decimals        uint8
	Supply          uint64
	MintAuthority   common.PublicKey
	FreezeAuthority *common.PublicKey
}

type holdingRecord struct {
	Mint   common.PublicKey
	Owner  common.PublicKey
	Amount uint64
}

type creatorRecord struct {
	Address  common.PublicKey
	Verified bool
	Share    uint8
}

type collectionPointer struct {
	Verified bool
	Key      common.PublicKey
}

type dataRecord struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []creatorRecord
}

type metadataRecord struct {
	UpdateAuthority  common.PublicKey
	Mint             common.PublicKey
	Data             dataRecord
	AuthorityDerived bool
	Collection       *collectionPointer
}

type editionRecord struct {
	MaxSupply *uint64
}

func encodeRecord(v interface{}) ([]byte, error) {
	raw, err := borsh.Serialize(v)
	if err != nil {
		return nil, fmt.Errorf("memchain: encode record: %w", err)
	}
	return raw, nil
}

func decodeRecord(raw []byte, v interface{}) error {
	if err := borsh.Deserialize(v, raw); err != nil {
		return fmt.Errorf("memchain: decode record: %w", err)
	}
	return nil
}
