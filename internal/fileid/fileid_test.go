package fileid

import "testing"

func TestChunkIDDeterministic(t *testing.T) {
	a := ChunkID("/docs/guide.pdf", 0)
	b := ChunkID("/docs/guide.pdf", 0)
	if a != b {
		t.Errorf("same path and index produced different IDs: %q vs %q", a, b)
	}
}

func TestChunkIDDistinct(t *testing.T) {
	ids := map[string]string{
		"index 0":    ChunkID("/docs/guide.pdf", 0),
		"index 1":    ChunkID("/docs/guide.pdf", 1),
		"other file": ChunkID("/docs/other.pdf", 0),
	}
	seen := make(map[string]string)
	for name, id := range ids {
		if prev, ok := seen[id]; ok {
			t.Errorf("%s collides with %s: %q", name, prev, id)
		}
		seen[id] = name
	}
}

func TestChunkIDFormat(t *testing.T) {
	id := ChunkID("/docs/guide.pdf", 3)
	if len(id) != 36 {
		t.Errorf("ID %q is not a canonical UUID string", id)
	}
}
