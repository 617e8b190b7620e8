package rcsb

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultGraphQLURL is the RCSB GraphQL data API endpoint
	DefaultGraphQLURL = "https://data.rcsb.org/graphql"

	// DefaultHoldingsURL lists every entry ID currently deposited in the PDB
	DefaultHoldingsURL = "https://data.rcsb.org/rest/v1/holdings/current/entry_ids"
)

// batchQuery requests the crystallization fields for a set of entry IDs.
// To download more information, change this query; see https://data.rcsb.org/#gql-api
const batchQuery = `{
  entries(entry_ids: [%s]) {
    rcsb_id
    exptl_crystal_grow {
      method
      temp
      pdbx_details
      pH
    }
    rcsb_entry_info {
      resolution_combined
    }
    pubmed {
      rcsb_pubmed_central_id
    }
  }
}`

// BatchQueryURL constructs the GraphQL GET URL for a batch of entry IDs.
// The IDs are embedded in the query text as a literal quoted list.
func BatchQueryURL(base string, ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = `"` + id + `"`
	}

	query := fmt.Sprintf(batchQuery, strings.Join(quoted, ", "))

	params := url.Values{}
	params.Set("query", query)

	return fmt.Sprintf("%s?%s", base, params.Encode())
}

// IsValidEntryID checks if a string looks like a PDB entry ID:
// four characters, leading digit, letters and digits only.
func IsValidEntryID(id string) bool {
	if len(id) != 4 {
		return false
	}
	if id[0] < '0' || id[0] > '9' {
		return false
	}
	for _, char := range id {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9')) {
			return false
		}
	}
	return true
}
