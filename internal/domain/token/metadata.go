// internal/domain/token/metadata.go
package token

import (
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
)

// Field limits mirror the metadata registry's on-record constraints.
const (
	MaxNameLength         = 32
	MaxSymbolLength       = 10
	MaxURILength          = 200
	MaxRoyaltyBasisPoints = 10000
)

var (
	ErrInvalidName      = errors.New("token: name is empty or too long")
	ErrInvalidSymbol    = errors.New("token: symbol is empty or too long")
	ErrInvalidURI       = errors.New("token: uri is empty or too long")
	ErrInvalidRoyalty   = errors.New("token: royalty basis points out of range")
	ErrInvalidShares    = errors.New("token: creator shares must sum to 100")
	ErrCreatorNotSigner = errors.New("token: verified creator is not a signer")
)

// Creator is one entry of a metadata record's creator list.
type Creator struct {
	Address  common.PublicKey
	Verified bool
	Share    uint8
}

// Metadata is the value object attached to a mint: display fields, royalty
// and the creator list. The same shape serves collections and member assets.
type Metadata struct {
	Name               string
	Symbol             string
	URI                string
	RoyaltyBasisPoints uint16
	Creators           []Creator
}

// Validate checks field limits and the creator share sum.
func (m Metadata) Validate() error {
	if m.Name == "" || len(m.Name) > MaxNameLength {
		return fmt.Errorf("%w: %q", ErrInvalidName, m.Name)
	}
	if m.Symbol == "" || len(m.Symbol) > MaxSymbolLength {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, m.Symbol)
	}
	if m.URI == "" || len(m.URI) > MaxURILength {
		return fmt.Errorf("%w: %d bytes", ErrInvalidURI, len(m.URI))
	}
	if m.RoyaltyBasisPoints > MaxRoyaltyBasisPoints {
		return fmt.Errorf("%w: %d", ErrInvalidRoyalty, m.RoyaltyBasisPoints)
	}
	if len(m.Creators) > 0 {
		var total int
		for _, c := range m.Creators {
			total += int(c.Share)
		}
		if total != 100 {
			return fmt.Errorf("%w: got %d", ErrInvalidShares, total)
		}
	}
	return nil
}

// ValidateCreatorSigners rejects any creator flagged verified whose address is
// not in the operation's signer set. A verified flag is a claim the address
// approved this record; it can never be asserted on someone else's behalf.
func (m Metadata) ValidateCreatorSigners(signers []common.PublicKey) error {
	for _, c := range m.Creators {
		if !c.Verified {
			continue
		}
		signed := false
		for _, s := range signers {
			if s == c.Address {
				signed = true
				break
			}
		}
		if !signed {
			return fmt.Errorf("%w: %s", ErrCreatorNotSigner, c.Address.ToBase58())
		}
	}
	return nil
}
