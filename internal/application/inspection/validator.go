// internal/application/inspection/validator.go
package inspection

import (
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
)

var (
	ErrAlreadyInitialized = errors.New("inspection: account already initialized")
	ErrOwnershipMismatch  = errors.New("inspection: account ownership mismatch")
	ErrPrivilegeViolation = errors.New("inspection: account privilege violation")
)

// Validate checks every declared account role against the current view and the
// operation's signer set. It runs before any state-changing step; a single
// failure rejects the whole operation.
func Validate(view View, refs []Ref, signers []common.PublicKey) error {
	for _, r := range refs {
		info, exists := view.Account(r.Key)

		switch r.Intent {
		case IntentCreate:
			if exists && info.DataLen > 0 {
				return fmt.Errorf("%w: %s (%s)", ErrAlreadyInitialized, r.Name, r.Key.ToBase58())
			}
			if !r.Writable {
				return fmt.Errorf("%w: %s must be writable to initialize", ErrPrivilegeViolation, r.Name)
			}
		case IntentRead, IntentWrite:
			if !exists {
				// A missing account is owned by no one, so no ownership
				// expectation can hold for it.
				return fmt.Errorf("%w: %s (%s) does not exist", ErrOwnershipMismatch, r.Name, r.Key.ToBase58())
			}
			if r.Owner != nil && info.Owner != *r.Owner {
				return fmt.Errorf("%w: %s owned by %s, want %s",
					ErrOwnershipMismatch, r.Name, info.Owner.ToBase58(), r.Owner.ToBase58())
			}
			if r.Intent == IntentWrite && !r.Writable {
				return fmt.Errorf("%w: %s is written but not flagged writable", ErrPrivilegeViolation, r.Name)
			}
		case IntentAuthorize:
			if !r.Writable {
				return fmt.Errorf("%w: %s authorizes a call and must be writable", ErrPrivilegeViolation, r.Name)
			}
			if exists && r.Owner != nil && info.Owner != *r.Owner {
				return fmt.Errorf("%w: %s owned by %s, want %s",
					ErrOwnershipMismatch, r.Name, info.Owner.ToBase58(), r.Owner.ToBase58())
			}
		}
	}

	// The signer set must contain exactly the principals the operation
	// declared: every declared signer present, no extras smuggled in.
	for _, r := range refs {
		if !r.Signer {
			continue
		}
		if !containsKey(signers, r.Key) {
			return fmt.Errorf("%w: missing signer %s (%s)", ErrPrivilegeViolation, r.Name, r.Key.ToBase58())
		}
	}
	for _, s := range signers {
		if !declaredSigner(refs, s) {
			return fmt.Errorf("%w: unexpected signer %s", ErrPrivilegeViolation, s.ToBase58())
		}
	}
	return nil
}

func containsKey(keys []common.PublicKey, k common.PublicKey) bool {
	for _, c := range keys {
		if c == k {
			return true
		}
	}
	return false
}

func declaredSigner(refs []Ref, k common.PublicKey) bool {
	for _, r := range refs {
		if r.Signer && r.Key == k {
			return true
		}
	}
	return false
}
