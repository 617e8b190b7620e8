package rcsb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crystaldb/pkg/config"
	"crystaldb/pkg/logger"
)

// Error types for RCSB API operations
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents an RCSB API error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("rcsb %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// Client is a client for the RCSB PDB data API
type Client struct {
	httpClient  *http.Client
	headers     map[string]string
	graphqlURL  string
	holdingsURL string
	logger      logger.Logger
}

// NewClient creates a new RCSB API client
func NewClient(cfg config.RCSBConfig, log logger.Logger) *Client {
	// Use default logger if none provided
	if log == nil {
		log = logger.GetLogger()
	}

	graphqlURL := cfg.GraphQLURL
	if graphqlURL == "" {
		graphqlURL = DefaultGraphQLURL
	}
	holdingsURL := cfg.HoldingsURL
	if holdingsURL == "" {
		holdingsURL = DefaultHoldingsURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "crystaldb/1.0",
		},
		graphqlURL:  graphqlURL,
		holdingsURL: holdingsURL,
		logger:      log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP GET with the configured headers
func (c *Client) doRequest(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON response,
// returning an error on non-success status codes.
func (c *Client) GetJSON(url string, target interface{}) error {
	resp, err := c.doRequest(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview(body),
		})
		return &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode >= 500:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeServerError,
			Message: "server error",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode >= 400:
		c.logger.ErrorWithFields("unexpected API error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	default:
		return nil
	}
}

// ListAllIdentifiers fetches the complete current entry ID universe from
// the holdings endpoint.
func (c *Client) ListAllIdentifiers() ([]string, error) {
	c.logger.InfoWithFields("fetching current entry ID list", map[string]interface{}{
		"url": c.holdingsURL,
	})

	var ids []string
	if err := c.GetJSON(c.holdingsURL, &ids); err != nil {
		c.logger.WithError(err).Error("failed to fetch entry ID list")
		return nil, err
	}

	c.logger.InfoWithFields("fetched entry ID list", map[string]interface{}{
		"count": len(ids),
	})

	return ids, nil
}

// FetchBatch issues one batch-detail query for the given entry IDs.
//
// A non-success status is not an error here: the body is decoded and
// surfaced anyway so the caller can apply its missing-data check, which
// is the contract the fetch loop relies on. Only transport failures and
// undecodable bodies return an error.
func (c *Client) FetchBatch(ids []string) (*BatchResponse, error) {
	url := BatchQueryURL(c.graphqlURL, ids)

	c.logger.DebugWithFields("fetching entry batch", map[string]interface{}{
		"count": len(ids),
	})

	resp, err := c.doRequest(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnWithFields("batch request returned non-success status", map[string]interface{}{
			"status":       resp.StatusCode,
			"count":        len(ids),
			"body_preview": bodyPreview(body),
		})
	}

	var result BatchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.ErrorWithFields("failed to parse batch response", map[string]interface{}{
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview(body),
		})
		return nil, &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return &result, nil
}

// bodyPreview truncates a response body for log output
func bodyPreview(body []byte) string {
	preview := string(body)
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	return preview
}
