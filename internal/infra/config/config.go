// internal/infra/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/mr-tron/base58"

	"autoverify/internal/domain/authority"
)

// Config holds the environment-driven settings of the module: where to
// submit, which program identity to derive under, how to load keys, and the
// optional receipt journal.
type Config struct {
	RPCEndpoint string
	ProgramID   string

	// Keypair sources, consumed by the signer loader.
	KeypairPath   string
	KeySecretName string

	// ComputeUnitOverride, when > 0, replaces the planner's request.
	ComputeUnitOverride uint32

	// ReceiptJournalDSN, when set, enables the Postgres receipt journal.
	ReceiptJournalDSN string
}

// Load reads configuration from the environment.
func Load() *Config {
	cfg := &Config{
		RPCEndpoint:       getenvDefault("AUTOVERIFY_RPC_ENDPOINT", rpc.DevnetRPCEndpoint),
		ProgramID:         os.Getenv("AUTOVERIFY_PROGRAM_ID"),
		KeypairPath:       os.Getenv("AUTOVERIFY_KEYPAIR"),
		KeySecretName:     os.Getenv("AUTOVERIFY_KEY_SECRET"),
		ReceiptJournalDSN: os.Getenv("AUTOVERIFY_JOURNAL_DSN"),
	}
	if raw := os.Getenv("AUTOVERIFY_COMPUTE_UNITS"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
			cfg.ComputeUnitOverride = uint32(v)
		}
	}
	return cfg
}

// Program resolves the program identity: the configured override when set,
// the deployed default otherwise.
func (c *Config) Program() (common.PublicKey, error) {
	if c.ProgramID == "" {
		return authority.DefaultProgramID, nil
	}
	raw, err := base58.Decode(c.ProgramID)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("config: decode program id %q: %w", c.ProgramID, err)
	}
	if len(raw) != common.PublicKeyLength {
		return common.PublicKey{}, fmt.Errorf("config: program id %q is %d bytes, want %d",
			c.ProgramID, len(raw), common.PublicKeyLength)
	}
	return common.PublicKeyFromBytes(raw), nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
