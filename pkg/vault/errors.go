package vault

import (
	"errors"
	"fmt"

	"github.com/matzehuels/inarow/pkg/state"
)

var (
	// ErrNotInVault is the sentinel behind [NotInVaultError].
	ErrNotInVault = errors.New("not in vault")

	// ErrCorruptEntry is returned when a stored entry cannot be decoded or
	// does not match its key.
	ErrCorruptEntry = errors.New("corrupt vault entry")
)

// NotInVaultError reports a digest with no stored entry. During expansion it
// is the signal for a newly discovered position.
type NotInVaultError struct {
	Digest state.Digest
}

func (e *NotInVaultError) Error() string {
	return fmt.Sprintf("state %s: %v", e.Digest.Short(), ErrNotInVault)
}

// Unwrap returns ErrNotInVault so that errors.Is matches.
func (e *NotInVaultError) Unwrap() error { return ErrNotInVault }

// IsNotInVault reports whether err is a vault miss.
func IsNotInVault(err error) bool { return errors.Is(err, ErrNotInVault) }
