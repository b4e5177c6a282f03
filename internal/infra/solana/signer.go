// internal/infra/solana/signer.go
package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"log"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/blocto/solana-go-sdk/types"
)

// LoadSigner restores a principal keypair for transaction submission.
// Resolution order:
//  1. keypairPath: path to a solana-keygen keypair file
//  2. secretName: full Secret Manager version path
//     ("projects/<P>/secrets/<S>/versions/latest") holding the same JSON
func LoadSigner(ctx context.Context, keypairPath, secretName string) (types.Account, error) {
	if keypairPath != "" {
		raw, err := os.ReadFile(keypairPath)
		if err != nil {
			return types.Account{}, fmt.Errorf("solana: read keypair %s: %w", keypairPath, err)
		}
		acc, err := accountFromKeypairJSON(raw)
		if err != nil {
			return types.Account{}, err
		}
		log.Printf("[autoverify-signer] loaded keypair from file: pubkey=%s", acc.PublicKey.ToBase58())
		return acc, nil
	}

	if secretName == "" {
		return types.Account{}, fmt.Errorf("solana: neither a keypair path nor a key secret is configured")
	}

	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		return types.Account{}, fmt.Errorf("solana: secretmanager.NewClient: %w", err)
	}
	defer sm.Close()

	resp, err := sm.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{Name: secretName})
	if err != nil {
		return types.Account{}, fmt.Errorf("solana: AccessSecretVersion: %w", err)
	}
	acc, err := accountFromKeypairJSON(resp.Payload.Data)
	if err != nil {
		return types.Account{}, err
	}
	log.Printf("[autoverify-signer] loaded keypair from Secret Manager: secret=%s pubkey=%s",
		secretName, acc.PublicKey.ToBase58())
	return acc, nil
}

// accountFromKeypairJSON decodes a solana-keygen keypair file: a JSON array
// of 64 byte values.
func accountFromKeypairJSON(data []byte) (types.Account, error) {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return types.Account{}, fmt.Errorf("solana: unmarshal keypair json: %w", err)
	}
	keyBytes := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return types.Account{}, fmt.Errorf("solana: keypair byte out of range at %d: %d", i, v)
		}
		keyBytes[i] = byte(v)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return types.Account{}, fmt.Errorf("solana: unexpected keypair length: got %d, want %d",
			len(keyBytes), ed25519.PrivateKeySize)
	}
	acc, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return types.Account{}, fmt.Errorf("solana: AccountFromBytes: %w", err)
	}
	return acc, nil
}
