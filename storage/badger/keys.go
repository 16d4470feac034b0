package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/heritage/core"
)

// Key prefixes for different data types
const (
	artifactPrefix   = "art:"
	checkpointPrefix = "chkpt"
)

// makeArtifactKey generates a key for an artifact by ID.
// Format: prefix + big-endian ID, so prefix iteration yields ascending IDs.
func makeArtifactKey(id core.ID) []byte {
	buf := make([]byte, len(artifactPrefix)+8)
	offset := copy(buf, artifactPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeCheckpointKey generates a key for a collection's seeding checkpoint.
func makeCheckpointKey(collection string) []byte {
	return []byte(fmt.Sprintf("%s:%s", checkpointPrefix, collection))
}
