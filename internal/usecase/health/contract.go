package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexReadiness reports whether a trained index is being served.
type IndexReadiness interface {
	Ready() bool
}
