// cmd/devnet_mint/main.go
package main

import (
	"context"
	"flag"
	"log"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"autoverify/internal/domain/token"
	"autoverify/internal/infra/config"
	"autoverify/internal/infra/solana"
)

// Builds (and optionally submits) real cluster transactions against the
// deployed program. The signer comes from AUTOVERIFY_KEYPAIR or
// AUTOVERIFY_KEY_SECRET.
func main() {
	var (
		seed       = flag.String("seed", "gaming_items_v1", "collection seed")
		collection = flag.String("collection", "", "collection mint (base58); empty bootstraps a new collection")
		name       = flag.String("name", "Legendary Sword #001", "asset name")
		symbol     = flag.String("symbol", "GAME", "asset symbol")
		uri        = flag.String("uri", "https://x/1.json", "metadata uri")
		royalty    = flag.Uint("royalty", 500, "royalty basis points")
		send       = flag.Bool("send", false, "submit the transaction instead of only building it")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()

	program, err := cfg.Program()
	if err != nil {
		log.Fatalf("resolve program id: %v", err)
	}
	signer, err := solana.LoadSigner(ctx, cfg.KeypairPath, cfg.KeySecretName)
	if err != nil {
		log.Fatalf("load signer: %v", err)
	}

	c := client.NewClient(cfg.RPCEndpoint)
	freshMint := types.NewAccount()
	md := token.Metadata{
		Name:               *name,
		Symbol:             *symbol,
		URI:                *uri,
		RoyaltyBasisPoints: uint16(*royalty),
	}

	var tx types.Transaction
	if *collection == "" {
		built, col, err := solana.BuildBootstrapTransaction(ctx, c, program, signer, freshMint, *seed, md, cfg.ComputeUnitOverride)
		if err != nil {
			log.Fatalf("build bootstrap tx: %v", err)
		}
		tx = built
		log.Printf("[devnet-mint] bootstrap: seed=%s base_asset=%s authority=%s",
			*seed, col.BaseAsset.ToBase58(), col.Authority.Address.ToBase58())
	} else {
		base := common.PublicKeyFromString(*collection)
		built, newAsset, err := solana.BuildMintAndAttestTransaction(ctx, c, program, signer, freshMint, *seed, base, md, cfg.ComputeUnitOverride)
		if err != nil {
			log.Fatalf("build mint tx: %v", err)
		}
		tx = built
		log.Printf("[devnet-mint] mint: seed=%s asset=%s holding=%s",
			*seed, newAsset.Mint.ToBase58(), newAsset.Holding.ToBase58())
	}

	if !*send {
		log.Println("[devnet-mint] built only; pass -send to submit")
		return
	}
	sig, err := solana.Submit(ctx, c, tx)
	if err != nil {
		log.Fatalf("submit: %v", err)
	}
	log.Printf("[devnet-mint] signature=%s", sig)
}
