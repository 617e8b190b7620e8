package fetcher

import "crystaldb/pkg/rcsb"

// CatalogClient defines the remote API surface the fetch loop depends on
type CatalogClient interface {
	FetchBatch(ids []string) (*rcsb.BatchResponse, error)
}
