// Package httpfetch implements driven.RepositoryFetcher over HTTP.
//
// Each fetch is a single GET with no retries. Request starts are paced by a
// shared token bucket so a large sweep cannot burst more requests than the
// configured rate, and every request carries the caller's context so a
// cancelled sweep abandons its in-flight downloads.
package httpfetch
