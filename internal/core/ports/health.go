package ports

import "context"

// HealthChecker reports whether an external dependency is reachable.
// Ping returns nil when the dependency answers; Name identifies it in
// the health endpoint payload.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Name() string
}
