// Package blob provides the object-storage surface the pipeline needs: text
// documents written for the audit trail and read back for reference data.
// Semantics mirror a minimal subset of S3 so the adapter stays nearly 1:1.
package blob

import "context"

// Writer stores text documents under deterministic names.
type Writer interface {
	WriteText(ctx context.Context, name, text string) error
}

// Reader fetches text documents by name.
type Reader interface {
	ReadText(ctx context.Context, name string) (string, error)
}

// Store combines both directions for backends that support them.
type Store interface {
	Writer
	Reader
}
