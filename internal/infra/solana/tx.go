// internal/infra/solana/tx.go
package solana

import (
	"context"
	"fmt"
	"log"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/compute_budget"
	"github.com/blocto/solana-go-sdk/types"

	"autoverify/internal/application/budget"
	"autoverify/internal/domain/asset"
	"autoverify/internal/domain/collection"
	"autoverify/internal/domain/token"
)

// Transaction assembly for a real cluster. Both builders prepend the
// compute-unit request the planner computed, because the composed call runs
// past the default ceiling. A non-zero unitOverride replaces the planner's
// request.

func planUnits(unitOverride uint32) (uint32, error) {
	if unitOverride > 0 {
		if unitOverride > budget.MaxUnitLimit {
			return 0, fmt.Errorf("%w: override %d", budget.ErrBudgetPlanInfeasible, unitOverride)
		}
		return unitOverride, nil
	}
	plan, err := budget.ForOperation(4, budget.ClassComposite)
	if err != nil {
		return 0, err
	}
	return plan.Units, nil
}

// BuildBootstrapTransaction assembles the one-time collection setup
// transaction. The admin pays and signs; the fresh collection mint co-signs.
func BuildBootstrapTransaction(ctx context.Context, c *client.Client, program common.PublicKey,
	admin types.Account, collectionMint types.Account, seed string, md token.Metadata,
	unitOverride uint32) (types.Transaction, collection.Collection, error) {

	col, err := collection.Resolve(seed, collectionMint.PublicKey, program)
	if err != nil {
		return types.Transaction{}, collection.Collection{}, err
	}
	adminHolding, _, err := common.FindAssociatedTokenAddress(admin.PublicKey, collectionMint.PublicKey)
	if err != nil {
		return types.Transaction{}, collection.Collection{}, fmt.Errorf("solana: admin holding address: %w", err)
	}

	units, err := planUnits(unitOverride)
	if err != nil {
		return types.Transaction{}, collection.Collection{}, err
	}

	ix, err := InitializeCollectionInstruction(program, admin.PublicKey, col, adminHolding, md)
	if err != nil {
		return types.Transaction{}, collection.Collection{}, err
	}

	recent, err := c.GetLatestBlockhash(ctx)
	if err != nil {
		return types.Transaction{}, collection.Collection{}, fmt.Errorf("solana: GetLatestBlockhash: %w", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{admin, collectionMint},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        admin.PublicKey,
			RecentBlockhash: recent.Blockhash,
			Instructions: []types.Instruction{
				compute_budget.SetComputeUnitLimit(compute_budget.SetComputeUnitLimitParam{
					Units: units,
				}),
				ix,
			},
		}),
	})
	if err != nil {
		return types.Transaction{}, collection.Collection{}, fmt.Errorf("solana: NewTransaction: %w", err)
	}
	return tx, col, nil
}

// BuildMintAndAttestTransaction assembles one mint-and-attest transaction.
// The user pays and signs; the fresh asset mint co-signs. No admin key is
// involved anywhere.
func BuildMintAndAttestTransaction(ctx context.Context, c *client.Client, program common.PublicKey,
	user types.Account, assetMint types.Account, seed string, collectionMint common.PublicKey,
	md token.Metadata, unitOverride uint32) (types.Transaction, asset.Asset, error) {

	col, err := collection.Resolve(seed, collectionMint, program)
	if err != nil {
		return types.Transaction{}, asset.Asset{}, err
	}
	newAsset, err := asset.Resolve(assetMint.PublicKey, user.PublicKey, collectionMint)
	if err != nil {
		return types.Transaction{}, asset.Asset{}, err
	}

	units, err := planUnits(unitOverride)
	if err != nil {
		return types.Transaction{}, asset.Asset{}, err
	}

	ix, err := MintAndVerifyInstruction(program, user.PublicKey, newAsset, col, md)
	if err != nil {
		return types.Transaction{}, asset.Asset{}, err
	}

	recent, err := c.GetLatestBlockhash(ctx)
	if err != nil {
		return types.Transaction{}, asset.Asset{}, fmt.Errorf("solana: GetLatestBlockhash: %w", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{user, assetMint},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        user.PublicKey,
			RecentBlockhash: recent.Blockhash,
			Instructions: []types.Instruction{
				compute_budget.SetComputeUnitLimit(compute_budget.SetComputeUnitLimitParam{
					Units: units,
				}),
				ix,
			},
		}),
	})
	if err != nil {
		return types.Transaction{}, asset.Asset{}, fmt.Errorf("solana: NewTransaction: %w", err)
	}
	return tx, newAsset, nil
}

// Submit sends a built transaction and returns its signature. Confirmation
// waiting is the caller's concern.
func Submit(ctx context.Context, c *client.Client, tx types.Transaction) (string, error) {
	sig, err := c.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("solana: SendTransaction: %w", err)
	}
	log.Printf("[autoverify-tx] submitted: sig=%s", sig)
	return sig, nil
}
