package ports

import "context"

// TreeSource retrieves the raw tree configuration document. The version
// argument pins an immutable revision of the document (commit SHA style);
// sources that have no notion of versions may ignore it.
type TreeSource interface {
	Fetch(ctx context.Context, version string) ([]byte, error)
}
