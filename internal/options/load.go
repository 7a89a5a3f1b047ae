package options

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSrc string

// Overrides are values filled into the option struct before validation,
// keyed by CUE path (e.g. "features", "plot.ext").
type Overrides map[string]any

// Default returns the schema defaults.
func Default() (*Options, error) {
	return LoadBytes("", nil, nil)
}

// Load reads the CUE file at path (empty for defaults only), applies
// overrides, validates, and decodes the result.
func Load(path string, overrides Overrides) (*Options, error) {
	if path == "" {
		return LoadBytes("", nil, overrides)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options file: %w", err)
	}
	return LoadBytes(path, src, overrides)
}

// LoadBytes is Load over in-memory source. filename is used for positions.
func LoadBytes(filename string, src []byte, overrides Overrides) (*Options, error) {
	v, err := build(filename, src, overrides)
	if err != nil {
		return nil, err
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}
	opts, err := Compile(v)
	if err != nil {
		return nil, err
	}
	if err := opts.checkRelations(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Check validates a file and returns every problem found rather than the first.
func Check(filename string, src []byte) []error {
	v, err := build(filename, src, nil)
	if err != nil {
		return []error{err}
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		var out []error
		for _, e := range errors.Errors(err) {
			out = append(out, toOptionsError(e))
		}
		return out
	}
	opts, err := Compile(v)
	if err != nil {
		return []error{err}
	}
	if err := opts.checkRelations(); err != nil {
		return []error{err}
	}
	return nil
}

// build unifies the schema with the user source and overrides.
func build(filename string, src []byte, overrides Overrides) (cue.Value, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile option schema: %w", err)
	}
	v := schema.LookupPath(cue.ParsePath("#Options"))

	if len(src) > 0 {
		user := ctx.CompileBytes(src, cue.Filename(filename))
		if err := user.Err(); err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		v = v.Unify(user)
	}

	// Deterministic fill order keeps error messages stable.
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v = v.FillPath(cue.ParsePath(k), overrides[k])
	}

	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return v, nil
}
