package state

import (
	"strconv"

	"github.com/nncoach/client-core/internal/model"
)

// guestSuffix partitions persisted state for sessions without a user.
const guestSuffix = "guest"

// PartitionKey derives the storage key for a logical name under the given
// identity. It is a pure function of the identity at call time, so state
// persisted for one user can never be read or overwritten under another.
func PartitionKey(name string, user *model.Profile) string {
	if user == nil || user.ID == 0 {
		return name + "_" + guestSuffix
	}
	return name + "_" + strconv.FormatInt(user.ID, 10)
}
