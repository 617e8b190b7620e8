// Package structures holds the persistent collection of crystallization
// metadata records, keyed by PDB entry ID.
//
// The collection is persisted as a single JSON file that is loaded and
// saved whole; saves go through a temp-file-then-rename sequence so an
// interrupted write leaves the previous checkpoint intact. Inserting a
// record for an ID already present replaces the prior record entirely.
package structures
