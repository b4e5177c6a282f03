// internal/application/mint/usecase_test.go
package mint_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"autoverify/internal/application/budget"
	"autoverify/internal/application/inspection"
	"autoverify/internal/application/mint"
	"autoverify/internal/domain/authority"
	"autoverify/internal/domain/token"
	"autoverify/internal/infra/memchain"
)

func newEnv(t *testing.T) (*memchain.Chain, *mint.Usecase) {
	t.Helper()
	chain := memchain.New(authority.DefaultProgramID)
	return chain, mint.NewUsecase(chain, authority.DefaultProgramID)
}

func collectionMetadata() token.Metadata {
	return token.Metadata{
		Name:               "Epic Gaming Items",
		Symbol:             "GAME",
		URI:                "https://x/c.json",
		RoyaltyBasisPoints: 500,
	}
}

func assetMetadata(name string) token.Metadata {
	return token.Metadata{
		Name:               name,
		Symbol:             "GAME",
		URI:                "https://x/1.json",
		RoyaltyBasisPoints: 500,
	}
}

func bootstrap(t *testing.T, uc *mint.Usecase, seed string) (admin, base common.PublicKey, res *mint.BootstrapResult) {
	t.Helper()
	admin = types.NewAccount().PublicKey
	base = types.NewAccount().PublicKey
	res, err := uc.BootstrapCollection(context.Background(), mint.BootstrapInput{
		Admin:          admin,
		Seed:           seed,
		CollectionMint: base,
		Metadata:       collectionMetadata(),
	})
	if err != nil {
		t.Fatalf("BootstrapCollection(%q): %v", seed, err)
	}
	return admin, base, res
}

func TestBootstrapCollection(t *testing.T) {
	chain, uc := newEnv(t)
	admin, base, res := bootstrap(t, uc, "gaming_items_v1")

	want, err := authority.Derive("gaming_items_v1", authority.DefaultProgramID)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if res.Collection.Authority != want {
		t.Fatalf("collection authority = %v, want %v", res.Collection.Authority, want)
	}

	view, ok := chain.Metadata(base)
	if !ok {
		t.Fatal("collection metadata record missing")
	}
	if view.UpdateAuthority != want.Address {
		t.Fatalf("controlling authority = %s, want derived %s",
			view.UpdateAuthority.ToBase58(), want.Address.ToBase58())
	}
	if !view.AuthorityDerived {
		t.Fatal("collection not bound to a derived authority")
	}
	if len(view.Data.Creators) != 1 || view.Data.Creators[0].Address != admin || !view.Data.Creators[0].Verified {
		t.Fatalf("creator list = %+v, want sole verified admin", view.Data.Creators)
	}
	if got := chain.Balance(admin, base); got != 1 {
		t.Fatalf("admin holds %d units of the base asset, want 1", got)
	}
	if res.Receipt.UnitsConsumed > uint64(res.Receipt.UnitsRequested) {
		t.Fatalf("consumed %d of %d units", res.Receipt.UnitsConsumed, res.Receipt.UnitsRequested)
	}
	// The composed setup must not fit the default ceiling, or the planner
	// would have nothing to do.
	if res.Receipt.UnitsConsumed <= uint64(budget.DefaultUnitLimit) {
		t.Fatalf("bootstrap consumed only %d units; expected more than the %d default",
			res.Receipt.UnitsConsumed, budget.DefaultUnitLimit)
	}
}

func TestBootstrapTwiceFails(t *testing.T) {
	chain, uc := newEnv(t)
	_, base, _ := bootstrap(t, uc, "gaming_items_v1")
	before := chain.Len()

	// Same seed, same mint.
	_, err := uc.BootstrapCollection(context.Background(), mint.BootstrapInput{
		Admin:          types.NewAccount().PublicKey,
		Seed:           "gaming_items_v1",
		CollectionMint: base,
		Metadata:       collectionMetadata(),
	})
	if !errors.Is(err, inspection.ErrAlreadyInitialized) {
		t.Fatalf("rebootstrap same mint = %v, want ErrAlreadyInitialized", err)
	}

	// Same seed, fresh mint: the authority is already bound.
	_, err = uc.BootstrapCollection(context.Background(), mint.BootstrapInput{
		Admin:          types.NewAccount().PublicKey,
		Seed:           "gaming_items_v1",
		CollectionMint: types.NewAccount().PublicKey,
		Metadata:       collectionMetadata(),
	})
	if !errors.Is(err, inspection.ErrAlreadyInitialized) {
		t.Fatalf("rebootstrap fresh mint = %v, want ErrAlreadyInitialized", err)
	}

	if chain.Len() != before {
		t.Fatalf("failed rebootstrap changed state: %d -> %d accounts", before, chain.Len())
	}
}

func TestBootstrapRejectsInvalidSeed(t *testing.T) {
	_, uc := newEnv(t)
	_, err := uc.BootstrapCollection(context.Background(), mint.BootstrapInput{
		Admin:          types.NewAccount().PublicKey,
		Seed:           "not a valid seed!",
		CollectionMint: types.NewAccount().PublicKey,
		Metadata:       collectionMetadata(),
	})
	if !errors.Is(err, authority.ErrInvalidSeed) {
		t.Fatalf("BootstrapCollection = %v, want ErrInvalidSeed", err)
	}
}

func TestMintAndAttest(t *testing.T) {
	chain, uc := newEnv(t)
	_, base, _ := bootstrap(t, uc, "gaming_items_v1")

	user := types.NewAccount().PublicKey
	assetMint := types.NewAccount().PublicKey
	res, err := uc.MintAndAttest(context.Background(), mint.MintInput{
		User:           user,
		Seed:           "gaming_items_v1",
		CollectionMint: base,
		AssetMint:      assetMint,
		Metadata:       assetMetadata("Legendary Sword #001"),
	})
	if err != nil {
		t.Fatalf("MintAndAttest: %v", err)
	}

	if !res.Asset.Attested {
		t.Fatal("result asset not marked attested")
	}
	if got := chain.Balance(user, assetMint); got != 1 {
		t.Fatalf("user holds %d units, want 1", got)
	}

	view, ok := chain.Metadata(assetMint)
	if !ok {
		t.Fatal("asset metadata record missing")
	}
	if !view.Attested() {
		t.Fatal("registry record does not carry a verified collection pointer")
	}
	if view.Collection.Key != base {
		t.Fatalf("attested collection = %s, want %s", view.Collection.Key.ToBase58(), base.ToBase58())
	}
	if len(view.Data.Creators) != 1 || view.Data.Creators[0].Address != user || !view.Data.Creators[0].Verified {
		t.Fatalf("creator list = %+v, want sole verified user", view.Data.Creators)
	}

	// Third-party check: the collection's recorded authority must equal an
	// independent re-derivation from the seed alone.
	derived, err := authority.Derive("gaming_items_v1", authority.DefaultProgramID)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	colView, ok := chain.Metadata(base)
	if !ok {
		t.Fatal("collection metadata record missing")
	}
	if colView.UpdateAuthority != derived.Address {
		t.Fatalf("authorizing address %s does not match independent derivation %s",
			colView.UpdateAuthority.ToBase58(), derived.Address.ToBase58())
	}
}

func TestMintIntoUnbootstrappedCollection(t *testing.T) {
	chain, uc := newEnv(t)

	_, err := uc.MintAndAttest(context.Background(), mint.MintInput{
		User:           types.NewAccount().PublicKey,
		Seed:           "never_bootstrapped",
		CollectionMint: types.NewAccount().PublicKey,
		AssetMint:      types.NewAccount().PublicKey,
		Metadata:       assetMetadata("Orphan #001"),
	})
	if !errors.Is(err, mint.ErrCollectionAuthorityMismatch) {
		t.Fatalf("MintAndAttest = %v, want ErrCollectionAuthorityMismatch", err)
	}
	if chain.Len() != 0 {
		t.Fatalf("failed mint created %d records, want 0", chain.Len())
	}
}

func TestMintIntoForeignCollection(t *testing.T) {
	chain, uc := newEnv(t)
	_, baseA, _ := bootstrap(t, uc, "collection_a")
	before := chain.Len()

	// Claim seed collection_b while pointing at collection_a's base asset:
	// the recorded authority is derive(collection_a), not derive(collection_b).
	_, err := uc.MintAndAttest(context.Background(), mint.MintInput{
		User:           types.NewAccount().PublicKey,
		Seed:           "collection_b",
		CollectionMint: baseA,
		AssetMint:      types.NewAccount().PublicKey,
		Metadata:       assetMetadata("Impostor #001"),
	})
	if !errors.Is(err, mint.ErrCollectionAuthorityMismatch) {
		t.Fatalf("MintAndAttest = %v, want ErrCollectionAuthorityMismatch", err)
	}
	if chain.Len() != before {
		t.Fatalf("failed mint changed state: %d -> %d accounts", before, chain.Len())
	}
}

func TestMintReusedAssetIdentifier(t *testing.T) {
	_, uc := newEnv(t)
	_, base, _ := bootstrap(t, uc, "gaming_items_v1")

	user := types.NewAccount().PublicKey
	assetMint := types.NewAccount().PublicKey
	in := mint.MintInput{
		User:           user,
		Seed:           "gaming_items_v1",
		CollectionMint: base,
		AssetMint:      assetMint,
		Metadata:       assetMetadata("Legendary Sword #001"),
	}
	if _, err := uc.MintAndAttest(context.Background(), in); err != nil {
		t.Fatalf("MintAndAttest: %v", err)
	}
	if _, err := uc.MintAndAttest(context.Background(), in); !errors.Is(err, mint.ErrAssetAlreadyExists) {
		t.Fatalf("identifier reuse = %v, want ErrAssetAlreadyExists", err)
	}
}

func TestMintRejectsUnsignedVerifiedCreator(t *testing.T) {
	chain, uc := newEnv(t)
	_, base, _ := bootstrap(t, uc, "gaming_items_v1")
	before := chain.Len()

	md := assetMetadata("Forged #001")
	md.Creators = []token.Creator{
		{Address: types.NewAccount().PublicKey, Verified: true, Share: 100},
	}
	_, err := uc.MintAndAttest(context.Background(), mint.MintInput{
		User:           types.NewAccount().PublicKey,
		Seed:           "gaming_items_v1",
		CollectionMint: base,
		AssetMint:      types.NewAccount().PublicKey,
		Metadata:       md,
	})
	if !errors.Is(err, token.ErrCreatorNotSigner) {
		t.Fatalf("MintAndAttest = %v, want ErrCreatorNotSigner", err)
	}
	if chain.Len() != before {
		t.Fatalf("rejected mint still wrote records: %d -> %d", before, chain.Len())
	}
}

func TestConcurrentMints(t *testing.T) {
	chain, uc := newEnv(t)
	_, base, _ := bootstrap(t, uc, "gaming_items_v1")

	const minters = 8
	type outcome struct {
		user, mintKey common.PublicKey
		err           error
	}
	results := make([]outcome, minters)

	var wg sync.WaitGroup
	for i := 0; i < minters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := types.NewAccount().PublicKey
			assetMint := types.NewAccount().PublicKey
			_, err := uc.MintAndAttest(context.Background(), mint.MintInput{
				User:           user,
				Seed:           "gaming_items_v1",
				CollectionMint: base,
				AssetMint:      assetMint,
				Metadata:       assetMetadata("Concurrent Item"),
			})
			results[i] = outcome{user: user, mintKey: assetMint, err: err}
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r.err != nil {
			t.Fatalf("minter %d: %v", i, r.err)
		}
		view, ok := chain.Metadata(r.mintKey)
		if !ok || !view.Attested() {
			t.Fatalf("minter %d: asset not attested", i)
		}
		if got := chain.Balance(r.user, r.mintKey); got != 1 {
			t.Fatalf("minter %d holds %d units, want 1", i, got)
		}
	}
}
