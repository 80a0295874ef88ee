// Package extract turns a parsed C header into the declaration stream the
// binding builder consumes, and computes the hashes the generation cache is
// keyed on.
//
// Hash Format: "header_hash:render_hash" (8 hex chars each)
//   - Header hash: sha256(preprocessed header bytes)[:8]
//   - Render hash: sha256(template + naming convention)[:8]
package extract

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// HashLength is the number of hex characters in a truncated hash.
const HashLength = 8

// ComputeFileHash computes a hash of file content for change detection.
func ComputeFileHash(content []byte) string {
	return truncateHash(hashBytes(content))
}

// ComputeInputsHash hashes several inputs as one. Each part is length
// prefixed so moving bytes between parts changes the hash.
func ComputeInputsHash(parts ...[]byte) string {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(size[:], uint64(len(p)))
		h.Write(size[:])
		h.Write(p)
	}
	return truncateHash(hex.EncodeToString(h.Sum(nil)))
}

// CompareHashes checks which half of two hash pairs differs.
//
//   - headerChanged=true: the declarations may differ, the model is rebuilt
//   - renderChanged=true: only the template or options changed
func CompareHashes(old, new string) (headerChanged, renderChanged bool) {
	oldHeader, oldRender := ParseHashPair(old)
	newHeader, newRender := ParseHashPair(new)

	if oldHeader == "" && oldRender == "" {
		return true, true
	}
	if newHeader == "" && newRender == "" {
		return true, true
	}

	return oldHeader != newHeader, oldRender != newRender
}

// FormatHashPair formats header and render hashes as "header:render".
func FormatHashPair(headerHash, renderHash string) string {
	return headerHash + ":" + renderHash
}

// ParseHashPair parses a "header:render" hash pair.
// Returns an empty renderHash if the format is invalid.
func ParseHashPair(hashPair string) (headerHash, renderHash string) {
	idx := strings.Index(hashPair, ":")
	if idx == -1 {
		return hashPair, ""
	}
	return hashPair[:idx], hashPair[idx+1:]
}

// hashBytes computes SHA-256 hash of bytes and returns hex string.
func hashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// truncateHash truncates a hash string to HashLength characters.
func truncateHash(hash string) string {
	if len(hash) <= HashLength {
		return hash
	}
	return hash[:HashLength]
}
