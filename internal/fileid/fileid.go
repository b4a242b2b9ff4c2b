// Package fileid derives stable identifiers for ingested chunks.
package fileid

import (
	"strconv"

	"github.com/google/uuid"
)

// ChunkID returns a deterministic UUID for the index-th chunk of the file at
// path. Re-ingesting the same file yields the same IDs, so upserts overwrite
// earlier versions instead of accumulating duplicates.
func ChunkID(path string, index int) string {
	name := "kotae:" + path + "#" + strconv.Itoa(index)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
