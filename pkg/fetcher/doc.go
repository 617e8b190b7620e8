// Package fetcher implements the incremental fetch/merge/checkpoint loop.
//
// Given the universe of PDB entry IDs, the fetcher computes the work set
// (universe minus already-stored and excluded IDs per the options),
// partitions it into request-sized batches, and processes batches
// strictly in sequence: pace, query, extract, merge, persist. Both the
// record store and the exclusion set are written to disk after every
// batch, so a crash or interrupt loses at most one batch of work and a
// later invocation resumes where the files left off.
//
// Whole-batch failures (transport errors, responses without a data
// field) are logged and dropped without retry; their identifiers land in
// neither store and are retried naturally on the next run.
package fetcher
