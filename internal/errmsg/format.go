// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogOpen   Op = "open catalog"
	OpCatalogSearch Op = "search catalog"
	OpCatalogImport Op = "import catalog"
	OpCatalogRow    Op = "read catalog row"

	// Fetch operations
	OpFetch Op = "fetch"

	// Playback operations
	OpAssetLoad  Op = "load asset"
	OpRender     Op = "render"
	OpAudioStart Op = "start audio output"

	// Session state
	OpStateLoad Op = "load session state"
	OpStateSave Op = "save session state"

	// Control surface
	OpControlListen Op = "start control server"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
