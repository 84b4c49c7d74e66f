package common

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// SplitIDs parses a comma-separated id list, dropping empty entries.
func SplitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
