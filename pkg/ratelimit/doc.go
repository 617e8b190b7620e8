// Package ratelimit provides request pacing for the fetch loop.
//
// The fixed-interval limiter enforces a flat delay between consecutive
// remote requests, which is the only rate control the RCSB data API
// needs for a sequential batch client.
package ratelimit
