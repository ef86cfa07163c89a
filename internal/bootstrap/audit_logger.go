package bootstrap

import "context"

// AuditLog adalah catatan operasional level proses (start/stop server),
// terpisah dari audit trail workflow di internal/audit.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
