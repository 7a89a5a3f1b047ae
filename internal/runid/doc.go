// Package runid assigns identities to decoding runs.
//
// Every run carries two identifiers:
//   - ID: a time-sortable UUIDv7, unique per execution
//   - Hash: a content hash of the analysis inputs (options and data shape),
//     equal for any two runs that asked the same question of the same data
//
// Hashes are SHA-256 over canonical JSON with a domain prefix, so the same
// inputs hash identically across machines and releases.
package runid
