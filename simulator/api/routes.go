package api

// Route constants for the debug HTTP surface. This is harness-only:
// submit one instruction, inspect the resulting account state. It is
// never part of the on-chain program itself.
const (
	PingEndpoint = "/ping"

	AccountParam   = "address"
	AccountEndpoint = "/accounts/{" + AccountParam + "}"

	InstructionsEndpoint = "/instructions"

	ReceiptParam   = "address"
	ReceiptEndpoint = "/receipts/{" + ReceiptParam + "}"

	DebugStateParam    = "address"
	DebugStateEndpoint = "/debug/state/{" + DebugStateParam + "}"
)

// LogExcludedPrefixes lists endpoints that need no log line per call.
// The router does not consult it: middleware.Logger logs every request,
// these endpoints included.
var LogExcludedPrefixes = []string{PingEndpoint}
