// internal/infra/solana/instructions.go
package solana

import (
	"crypto/sha256"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/near/borsh-go"

	"autoverify/internal/domain/asset"
	"autoverify/internal/domain/collection"
	"autoverify/internal/domain/token"
)

// Instruction encoding for the deployed auto-verify program. Arguments are
// borsh, prefixed with the 8-byte method discriminator
// sha256("global:<method>")[..8].

func methodDiscriminator(method string) []byte {
	h := sha256.Sum256([]byte("global:" + method))
	return h[:8]
}

type metadataArgs struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
}

func toMetadataArgs(md token.Metadata) metadataArgs {
	return metadataArgs{
		Name:                 md.Name,
		Symbol:               md.Symbol,
		URI:                  md.URI,
		SellerFeeBasisPoints: md.RoyaltyBasisPoints,
	}
}

func encodeArgs(method string, args interface{}) ([]byte, error) {
	body, err := borsh.Serialize(args)
	if err != nil {
		return nil, fmt.Errorf("solana: encode %s args: %w", method, err)
	}
	return append(methodDiscriminator(method), body...), nil
}

// InitializeCollectionInstruction builds the on-chain bootstrap call. Account
// order is fixed by the program; the collection mint co-signs because the
// call initializes it.
func InitializeCollectionInstruction(program common.PublicKey, admin common.PublicKey,
	col collection.Collection, adminHolding common.PublicKey, md token.Metadata) (types.Instruction, error) {

	data, err := encodeArgs("initialize_collection", struct {
		Seed     string
		Metadata metadataArgs
	}{Seed: col.Seed, Metadata: toMetadataArgs(md)})
	if err != nil {
		return types.Instruction{}, err
	}

	return types.Instruction{
		ProgramID: program,
		Accounts: []types.AccountMeta{
			{PubKey: admin, IsSigner: true, IsWritable: true},
			{PubKey: col.BaseAsset, IsSigner: true, IsWritable: true},
			{PubKey: adminHolding, IsSigner: false, IsWritable: true},
			{PubKey: col.Metadata, IsSigner: false, IsWritable: true},
			{PubKey: col.Edition, IsSigner: false, IsWritable: true},
			{PubKey: col.Authority.Address, IsSigner: false, IsWritable: false},
			{PubKey: common.TokenProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.SPLAssociatedTokenAccountProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.MetaplexTokenMetaProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.SysVarRentPubkey, IsSigner: false, IsWritable: false},
		},
		Data: data,
	}, nil
}

// MintAndVerifyInstruction builds the on-chain mint-and-attest call. The
// collection authority account is writable: the program signs through it
// during the verification CPI, and the callee touches it.
func MintAndVerifyInstruction(program common.PublicKey, user common.PublicKey,
	newAsset asset.Asset, col collection.Collection, md token.Metadata) (types.Instruction, error) {

	data, err := encodeArgs("mint_and_verify_nft", struct {
		Seed     string
		Metadata metadataArgs
	}{Seed: col.Seed, Metadata: toMetadataArgs(md)})
	if err != nil {
		return types.Instruction{}, err
	}

	return types.Instruction{
		ProgramID: program,
		Accounts: []types.AccountMeta{
			{PubKey: user, IsSigner: true, IsWritable: true},
			{PubKey: newAsset.Mint, IsSigner: true, IsWritable: true},
			{PubKey: newAsset.Holding, IsSigner: false, IsWritable: true},
			{PubKey: newAsset.Metadata, IsSigner: false, IsWritable: true},
			{PubKey: newAsset.Edition, IsSigner: false, IsWritable: true},
			{PubKey: col.BaseAsset, IsSigner: false, IsWritable: false},
			{PubKey: col.Metadata, IsSigner: false, IsWritable: true},
			{PubKey: col.Edition, IsSigner: false, IsWritable: false},
			{PubKey: col.Authority.Address, IsSigner: false, IsWritable: true},
			{PubKey: common.TokenProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.SPLAssociatedTokenAccountProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.MetaplexTokenMetaProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
			{PubKey: common.SysVarRentPubkey, IsSigner: false, IsWritable: false},
		},
		Data: data,
	}, nil
}
