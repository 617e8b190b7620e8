// Package rcsb provides a client for the RCSB Protein Data Bank data API.
//
// Two operations are exposed: listing the complete current entry ID
// universe from the holdings REST endpoint, and fetching crystallization
// details for a batch of entry IDs through a single GraphQL GET request
// with the query text embedded in the URL.
//
// Batch responses are returned raw (parsed JSON only) so the caller can
// decide how to treat error documents; FetchBatch deliberately does not
// fail on non-200 statuses.
package rcsb
