package domain

import (
	"strings"
	"time"
)

// Source represents a configured remote endpoint that describes a catalog
// of installable packages.
type Source struct {
	// ID is the opaque, stable identity of the source.
	ID string

	// Name is the human-readable name for this source.
	Name string

	// URL is the endpoint serving the repository document.
	// Empty when the source has no endpoint configured.
	URL string

	// IconURL references the source's icon, if any.
	IconURL string

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// HasURL reports whether the source has an endpoint to fetch from.
func (s *Source) HasURL() bool {
	return strings.TrimSpace(s.URL) != ""
}

// DisplayName returns the name, falling back to the URL and then the ID.
func (s *Source) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.HasURL():
		return s.URL
	default:
		return s.ID
	}
}
