// Package met implements the search and object detail services for the
// Met Museum collection API.
package met

import (
	"errors"
)

// ErrEmptyQuery is returned by Search when the query is empty.
var ErrEmptyQuery = errors.New("search query must not be empty")

// SearchResult holds the outcome of one keyword search: the remote total
// and the object identifiers in the order the API returned them.
// Immutable after creation.
type SearchResult struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

// Artwork is the optional projection of one collection object. Every
// field except ObjectID may be empty, which means "not provided by the
// source", never an error.
type Artwork struct {
	ObjectID          int    `json:"objectID"`
	Title             string `json:"title,omitempty"`
	Artist            string `json:"artistDisplayName,omitempty"`
	Culture           string `json:"culture,omitempty"`
	Date              string `json:"objectDate,omitempty"`
	Medium            string `json:"medium,omitempty"`
	Dimensions        string `json:"dimensions,omitempty"`
	Department        string `json:"department,omitempty"`
	Classification    string `json:"classification,omitempty"`
	CreditLine        string `json:"creditLine,omitempty"`
	PrimaryImage      string `json:"primaryImage,omitempty"`
	PrimaryImageSmall string `json:"primaryImageSmall,omitempty"`
	ObjectURL         string `json:"objectURL,omitempty"`
}

// DisplayTitle returns the title, or "Untitled" when the source provided
// none. The Title field itself keeps the true absence.
func (a *Artwork) DisplayTitle() string {
	if a.Title == "" {
		return "Untitled"
	}
	return a.Title
}

// ImageURL returns the best available image URL: the primary image,
// falling back to the small variant, or "" when the object has no image.
func (a *Artwork) ImageURL() string {
	if a.PrimaryImage != "" {
		return a.PrimaryImage
	}
	return a.PrimaryImageSmall
}
