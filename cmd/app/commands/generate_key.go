package commands

import (
	"fmt"

	"github.com/redkeep/redkeep/internal/vault/crypto"
)

// RunGenerateKey generates a cryptographically secure 256-bit vault master key
// and prints it in the format expected by the VAULT_ENCRYPTION_KEY variable.
//
// Output format:
//   - VAULT_ENCRYPTION_KEY="<64 hexadecimal characters>"
//
// Security: store the key in your secret management system, never in source
// control. Losing the key makes every stored secret unrecoverable.
func RunGenerateKey(io IOTuple) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}

	fmt.Fprintln(io.Writer, "# Generated vault master key")
	fmt.Fprintln(io.Writer, "# Store this in your secret management system")
	fmt.Fprintf(io.Writer, "VAULT_ENCRYPTION_KEY=\"%s\"\n", key)

	return nil
}
