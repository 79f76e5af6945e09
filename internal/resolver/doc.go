// Package resolver looks up the current primary accessions for historical
// UniProt identifiers through the UniProt REST API.
//
// The pipeline treats the resolver as a black box returning a status string
// from a fixed vocabulary (primary, secondary:*, replaced, superseded,
// demerged, obsolete, error:*). Lookups are chunked to bound request size and
// processed strictly sequentially; a failure in one chunk marks only that
// chunk's identifiers as unresolved.
package resolver
