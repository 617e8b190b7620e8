package rcsb

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crystaldb/pkg/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	return NewClient(config.RCSBConfig{
		GraphQLURL:     DefaultGraphQLURL,
		HoldingsURL:    DefaultHoldingsURL,
		RequestTimeout: 5 * time.Second,
	}, nil)
}

func TestListAllIdentifiers(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, DefaultHoldingsURL,
		httpmock.NewStringResponder(http.StatusOK, `["1STP","2JEF","1CDG"]`))

	ids, err := client.ListAllIdentifiers()
	require.NoError(t, err)
	assert.Equal(t, []string{"1STP", "2JEF", "1CDG"}, ids)
}

func TestListAllIdentifiersServerError(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, DefaultHoldingsURL,
		httpmock.NewStringResponder(http.StatusInternalServerError, "upstream broken"))

	ids, err := client.ListAllIdentifiers()
	require.Error(t, err)
	assert.Nil(t, ids)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrorTypeServerError, apiErr.Type)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Code)
}

func TestFetchBatchSuccess(t *testing.T) {
	client := newTestClient(t)

	var requestedQuery string
	httpmock.RegisterResponder(http.MethodGet, `=~^https://data\.rcsb\.org/graphql`,
		func(req *http.Request) (*http.Response, error) {
			requestedQuery = req.URL.Query().Get("query")
			return httpmock.NewStringResponse(http.StatusOK, `{
				"data": {
					"entries": [
						{
							"rcsb_id": "1BBB",
							"exptl_crystal_grow": [
								{"method": "Vapor Diffusion", "temp": "298", "pdbx_details": "PEG 3350", "pH": 7.0}
							],
							"rcsb_entry_info": {"resolution_combined": [1.8]},
							"pubmed": {"rcsb_pubmed_central_id": "PMC1234567"}
						},
						{
							"rcsb_id": "1AAA",
							"exptl_crystal_grow": null
						}
					]
				}
			}`), nil
		})

	resp, err := client.FetchBatch([]string{"1AAA", "1BBB"})
	require.NoError(t, err)
	require.NotNil(t, resp.Data)
	require.Len(t, resp.Data.Entries, 2)

	// The query embeds the IDs as a literal quoted list
	assert.Contains(t, requestedQuery, `"1AAA", "1BBB"`)
	assert.Contains(t, requestedQuery, "exptl_crystal_grow")

	full := resp.Data.Entries[0]
	assert.Equal(t, "1BBB", full.RcsbID)
	require.Len(t, full.ExptlCrystalGrow, 1)
	require.NotNil(t, full.ExptlCrystalGrow[0].PdbxDetails)
	assert.Equal(t, "PEG 3350", *full.ExptlCrystalGrow[0].PdbxDetails)
	assert.Equal(t, "298", full.ExptlCrystalGrow[0].Temp)
	assert.Equal(t, 7.0, full.ExptlCrystalGrow[0].PH)

	empty := resp.Data.Entries[1]
	assert.Equal(t, "1AAA", empty.RcsbID)
	assert.Empty(t, empty.ExptlCrystalGrow)
}

func TestFetchBatchNonSuccessStatus(t *testing.T) {
	client := newTestClient(t)

	// An error document with a non-200 status must still be surfaced,
	// not turned into a client error; the caller owns the data check.
	httpmock.RegisterResponder(http.MethodGet, `=~^https://data\.rcsb\.org/graphql`,
		httpmock.NewStringResponder(http.StatusBadRequest, `{"errors":[{"message":"query too large"}]}`))

	resp, err := client.FetchBatch([]string{"1AAA"})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Nil(t, resp.Data)
}

func TestFetchBatchMalformedBody(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, `=~^https://data\.rcsb\.org/graphql`,
		httpmock.NewStringResponder(http.StatusOK, "<html>gateway timeout</html>"))

	resp, err := client.FetchBatch([]string{"1AAA"})
	require.Error(t, err)
	assert.Nil(t, resp)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrorTypeParsing, apiErr.Type)
}

func TestFetchBatchNetworkError(t *testing.T) {
	client := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, `=~^https://data\.rcsb\.org/graphql`,
		httpmock.NewErrorResponder(assert.AnError))

	resp, err := client.FetchBatch([]string{"1AAA"})
	require.Error(t, err)
	assert.Nil(t, resp)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrorTypeNetwork, apiErr.Type)
}

func TestBatchQueryURLStaysDecodable(t *testing.T) {
	ids := []string{"1STP", "2JEF", "1CDG"}
	raw := BatchQueryURL(DefaultGraphQLURL, ids)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	query := parsed.Query().Get("query")
	for _, id := range ids {
		assert.True(t, strings.Contains(query, `"`+id+`"`), "query must quote %s", id)
	}
}
