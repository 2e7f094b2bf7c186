// =============================================================================
// Recycle Register - Main Entry Point
// =============================================================================
//
// USAGE:
//   register checkout   - Ring up a customer interactively
//   register receipt    - Show a customer's purchases and total
//   register join       - Show or export the joined ledger
//   register version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic; internal/relation holds the joined view
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/recycle-register/cmd"
)

func main() {
	cmd.Execute()
}
