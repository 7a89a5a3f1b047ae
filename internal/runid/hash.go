package runid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes. The version suffix allows the
// algorithm to change without colliding with older hashes.
const (
	DomainRun       = "crosstemp/run/v1"
	DomainRecording = "crosstemp/recording/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RunHash computes the content hash of a run from its option map and the
// shape of the data it was computed on.
func RunHash(options map[string]any, shape []int) (string, error) {
	obj := map[string]any{
		"options": options,
		"shape":   shape,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RunHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}

// RecordingHash computes the content hash of a recording's metadata.
func RecordingHash(name string, neurons, bins, trials int, duration float64) (string, error) {
	obj := map[string]any{
		"name":     name,
		"neurons":  neurons,
		"bins":     bins,
		"trials":   trials,
		"duration": duration,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RecordingHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRecording, canonical), nil
}
