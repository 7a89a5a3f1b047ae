package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/roach88/crosstemp/internal/runid"
)

// encodeFloats packs values as little-endian float64.
func encodeFloats(values []float64) []byte {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

// decodeFloats unpacks a little-endian float64 BLOB holding exactly n values.
func decodeFloats(data []byte, n int) ([]float64, error) {
	if len(data) != 8*n {
		return nil, fmt.Errorf("blob has %d bytes, want %d for %d values", len(data), 8*n, n)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
	}
	return out, nil
}

// encodeFeatures flattens a neuron x bin block neuron-major.
func encodeFeatures(x [][]float64, neurons, bins int) ([]byte, error) {
	if len(x) != neurons {
		return nil, fmt.Errorf("trial has %d neurons, want %d", len(x), neurons)
	}
	flat := make([]float64, 0, neurons*bins)
	for n, row := range x {
		if len(row) != bins {
			return nil, fmt.Errorf("neuron %d has %d bins, want %d", n, len(row), bins)
		}
		flat = append(flat, row...)
	}
	return encodeFloats(flat), nil
}

func decodeFeatures(data []byte, neurons, bins int) ([][]float64, error) {
	flat, err := decodeFloats(data, neurons*bins)
	if err != nil {
		return nil, err
	}
	x := make([][]float64, neurons)
	for n := range x {
		x[n] = flat[n*bins : (n+1)*bins : (n+1)*bins]
	}
	return x, nil
}

// marshalOptions converts run options to canonical JSON TEXT.
func marshalOptions(opts map[string]any) (string, error) {
	data, err := runid.MarshalCanonical(opts)
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	return string(data), nil
}

func unmarshalOptions(data string) (map[string]any, error) {
	if data == "" || data == "{}" {
		return map[string]any{}, nil
	}
	var opts map[string]any
	if err := json.Unmarshal([]byte(data), &opts); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	return opts, nil
}

func marshalShape(shape []int) (string, error) {
	data, err := runid.MarshalCanonical(shape)
	if err != nil {
		return "", fmt.Errorf("marshal shape: %w", err)
	}
	return string(data), nil
}

func unmarshalShape(data string) ([]int, error) {
	var shape []int
	if err := json.Unmarshal([]byte(data), &shape); err != nil {
		return nil, fmt.Errorf("unmarshal shape: %w", err)
	}
	return shape, nil
}
