// Package options loads decoding options from CUE.
//
// The option schema (#Options in schema.cue) is embedded in the binary and
// carries every default and constraint. A user configuration file is a
// plain CUE struct that is unified with the schema, so unknown fields,
// out-of-range values, and type mismatches are reported with file
// positions. Command-line values are filled into the same value before
// validation and therefore obey the same constraints.
package options
