// cmd/console/main.go
package main

import (
	"context"
	"os"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"autoverify/internal/application/mint"
	"autoverify/internal/domain/token"
	"autoverify/internal/infra/config"
	"autoverify/internal/infra/database"
	"autoverify/internal/infra/memchain"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if os.Getenv("DEBUG_LOGS") != "" {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Level(level)
}

// Runs the full protocol against the in-memory environment: bootstrap one
// collection, then mint two independently owned, automatically attested
// assets into it.
func main() {
	ctx := context.Background()

	cfg := config.Load()
	program, err := cfg.Program()
	if err != nil {
		log.Fatal().Err(err).Msg("resolve program id")
	}

	var journal *database.ReceiptJournal
	if cfg.ReceiptJournalDSN != "" {
		journal, err = database.OpenJournal(ctx, cfg.ReceiptJournalDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("open receipt journal")
		}
		defer journal.Close()
	}

	chain := memchain.New(program)
	uc := mint.NewUsecase(chain, program)

	admin := types.NewAccount()
	collectionMint := types.NewAccount()

	const seed = "gaming_items_v1"
	boot, err := uc.BootstrapCollection(ctx, mint.BootstrapInput{
		Admin:          admin.PublicKey,
		Seed:           seed,
		CollectionMint: collectionMint.PublicKey,
		Metadata: token.Metadata{
			Name:               "Epic Gaming Items",
			Symbol:             "GAME",
			URI:                "https://x/c.json",
			RoyaltyBasisPoints: 500,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap collection")
	}
	record(ctx, journal, boot.Receipt)
	log.Info().
		Str("seed", seed).
		Str("base_asset", boot.Collection.BaseAsset.ToBase58()).
		Str("authority", boot.Collection.Authority.Address.ToBase58()).
		Uint8("factor", boot.Collection.Authority.Factor).
		Uint64("units", boot.Receipt.UnitsConsumed).
		Msg("collection bootstrapped")

	for i, name := range []string{"Legendary Sword #001", "Legendary Shield #002"} {
		user := types.NewAccount()
		assetMint := types.NewAccount()
		res, err := uc.MintAndAttest(ctx, mint.MintInput{
			User:           user.PublicKey,
			Seed:           seed,
			CollectionMint: collectionMint.PublicKey,
			AssetMint:      assetMint.PublicKey,
			Metadata: token.Metadata{
				Name:               name,
				Symbol:             "GAME",
				URI:                "https://x/" + string(rune('1'+i)) + ".json",
				RoyaltyBasisPoints: 500,
			},
		})
		if err != nil {
			log.Fatal().Err(err).Str("asset", name).Msg("mint and attest")
		}
		record(ctx, journal, res.Receipt)

		view, _ := chain.Metadata(res.Asset.Mint)
		log.Info().
			Str("asset", name).
			Str("mint", res.Asset.Mint.ToBase58()).
			Str("owner", user.PublicKey.ToBase58()).
			Uint64("balance", chain.Balance(user.PublicKey, res.Asset.Mint)).
			Bool("attested", view.Attested()).
			Uint64("units", res.Receipt.UnitsConsumed).
			Msg("asset minted and attested")
	}
}

func record(ctx context.Context, journal *database.ReceiptJournal, r *mint.Receipt) {
	if journal == nil {
		return
	}
	if err := journal.Record(ctx, r); err != nil {
		log.Warn().Err(err).Str("receipt", r.ID).Msg("journal write failed")
	}
}
