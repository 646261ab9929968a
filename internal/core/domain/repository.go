package domain

import (
	"encoding/json"
	"time"
)

// Repository is the parsed document served by a source.
// Its payload is opaque to the refresh engine.
type Repository struct {
	// Name is the repository's self-declared name, when present.
	Name string

	// Identifier is the repository's self-declared identifier, when present.
	Identifier string

	// SourceURL is the URL the document was fetched from.
	SourceURL string

	// Payload is the raw document body.
	Payload json.RawMessage
}

// FetchOutcome is the result of attempting one source in a batch.
// Repository is nil when the source has no URL or the fetch failed.
type FetchOutcome struct {
	Source     Source
	Repository *Repository

	// Err is the reason the outcome is absent, if a fetch was attempted.
	Err error
}

// OK reports whether the outcome carries a document.
func (o FetchOutcome) OK() bool {
	return o.Repository != nil
}

// CacheEntry pairs a source with its last successfully fetched repository.
type CacheEntry struct {
	Source      Source
	Repository  *Repository
	LastUpdated time.Time
}
