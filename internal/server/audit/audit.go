// Package audit is a best-effort sink for security-relevant events. Its
// write path deliberately returns nothing: an audit failure must never block
// or fail the action being audited, so errors are logged and discarded
// inside the sink and callers structurally cannot mishandle them.
package audit

import "context"

// Event names recorded by the authentication and boot paths.
const (
	EventLogin       = "login"
	EventLoginDenied = "login_denied"
	EventLogout      = "logout"
	EventSeedFailed  = "credential_seed_failed"
)

// Sink appends audit records.
type Sink interface {
	// Record appends one event with optional structured details. It never
	// reports failure to the caller.
	Record(ctx context.Context, event string, details map[string]any)
}
