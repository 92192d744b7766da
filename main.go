// =============================================================================
// Extension Request Processor - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Extension Request Processor CLI. It
// delegates command execution to the cmd package.
//
// USAGE:
//   extensions process -f responses.csv  - Process an exported responses file
//   extensions process --clipboard       - Process rows copied to the clipboard
//   extensions version                   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Parsing, processing and output writing
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/extension-requests/cmd"
)

func main() {
	cmd.Execute()
}
