// internal/infra/solana/signer_test.go
package solana

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
)

func TestAccountFromKeypairJSON(t *testing.T) {
	acc := types.NewAccount()
	ints := make([]int, len(acc.PrivateKey))
	for i, b := range acc.PrivateKey {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := accountFromKeypairJSON(raw)
	if err != nil {
		t.Fatalf("accountFromKeypairJSON: %v", err)
	}
	if got.PublicKey != acc.PublicKey {
		t.Fatalf("pubkey = %s, want %s", got.PublicKey.ToBase58(), acc.PublicKey.ToBase58())
	}
	if !bytes.Equal(got.PrivateKey, acc.PrivateKey) {
		t.Fatal("private key did not round trip")
	}
}

func TestAccountFromKeypairJSONRejectsBadInput(t *testing.T) {
	if _, err := accountFromKeypairJSON([]byte(`"not an array"`)); err == nil {
		t.Fatal("string input accepted")
	}
	if _, err := accountFromKeypairJSON([]byte(`[1, 2, 3]`)); err == nil {
		t.Fatal("short key accepted")
	}
	if _, err := accountFromKeypairJSON([]byte(`[300]`)); err == nil {
		t.Fatal("out-of-range byte accepted")
	}
}
