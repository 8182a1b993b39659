// Package pagination maintains the current page window over a search
// result's identifier list.
//
// PageState is a plain value: navigation operations are pure functions
// returning a new state, so page logic can be unit tested without any
// UI harness. Requests that would leave the valid page range are no-ops
// rather than errors.
package pagination
