package redis

import (
	"fmt"

	"github.com/ncseq/seqserver/internal/model"
)

// Key prefix for all coordinator data
const keyPrefix = "seqserver"

// sessionRecordKey returns the Redis key for a SessionRecord
func sessionRecordKey(code model.GameCode) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, code)
}

// sessionIndexKey returns the Redis key for the SET of known session codes
func sessionIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}
