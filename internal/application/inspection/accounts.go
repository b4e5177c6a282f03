// internal/application/inspection/accounts.go
package inspection

import (
	"github.com/blocto/solana-go-sdk/common"
)

// Intent states what an operation expects of an account before any step runs.
type Intent uint8

const (
	// IntentCreate: the account must not hold data yet; the operation
	// initializes it.
	IntentCreate Intent = iota
	// IntentRead: the account must exist; the operation only reads it.
	IntentRead
	// IntentWrite: the account must exist and be flagged writable.
	IntentWrite
	// IntentAuthorize: the account only authorizes a downstream call. It may
	// be empty (derived authorities have no stored record), but it still must
	// be flagged writable, because the callee touches it when it acts as a
	// signer inside the call.
	IntentAuthorize
)

// Ref is one statically-declared account role of an operation. Every account
// an operation touches appears as exactly one Ref, so the validator sees the
// complete account set up front.
type Ref struct {
	Name     string
	Key      common.PublicKey
	Intent   Intent
	Owner    *common.PublicKey // required owning program, when the account exists
	Signer   bool
	Writable bool
}

// Info is the validator's read-only view of one existing account.
type Info struct {
	Owner   common.PublicKey
	DataLen int
}

// View is read-only access to the account space an operation runs against.
type View interface {
	Account(key common.PublicKey) (Info, bool)
}
