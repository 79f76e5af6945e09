package resolver

import "context"

// Status vocabulary returned by resolvers. Statuses outside this set are
// treated as valid-but-unknown by consumers.
const (
	StatusPrimary    = "primary"
	StatusReplaced   = "replaced"
	StatusSuperseded = "superseded"
	StatusDemerged   = "demerged"
	StatusObsolete   = "obsolete"
	// StatusSecondaryPrefix precedes the current primary accession when the
	// queried identifier is a secondary accession: "secondary:P12345".
	StatusSecondaryPrefix = "secondary:"
	// StatusErrorPrefix precedes a captured failure reason for identifiers in
	// a chunk whose lookup failed: "error:connection refused".
	StatusErrorPrefix = "error:"
)

// Resolution is the outcome of resolving one identifier: the current primary
// accessions (empty for obsolete or failed lookups) and a status string from
// the fixed vocabulary.
type Resolution struct {
	PrimaryIDs []string
	Status     string
}

// Resolver resolves a batch of identifiers to their current primary
// accessions. Implementations must return an entry for every requested
// identifier; lookup failures surface as error:* statuses, not as a returned
// error, so one bad batch never aborts the remaining work.
type Resolver interface {
	ResolveBatch(ctx context.Context, ids []string) (map[string]Resolution, error)
}
