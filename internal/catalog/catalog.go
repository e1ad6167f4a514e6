package catalog

import "context"

// MaxStorePages caps how many store pages one lookup replies with.
const MaxStorePages = 5

type Catalog interface {
	// FindStorePages returns live store page URLs for apps whose name
	// contains the query, at most limit of them.
	FindStorePages(ctx context.Context, query string, limit int) ([]string, error)
}
