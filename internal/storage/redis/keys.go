package redis

import (
	"fmt"

	"github.com/citygame/checkin/internal/model"
)

// Key prefix for all tracker data
const keyPrefix = "citygame"

// identityKey returns the Redis key for an Identity
func identityKey(id model.IdentityID) string {
	return fmt.Sprintf("%s:identity:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> identity id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// teamsIndexKey returns the Redis key for the SET of team identity ids
func teamsIndexKey() string {
	return fmt.Sprintf("%s:idx:teams", keyPrefix)
}

// postKey returns the Redis key for a Post
func postKey(id model.PostID) string {
	return fmt.Sprintf("%s:post:%d", keyPrefix, id)
}

// postsIndexKey returns the Redis key for the SET of post ids
func postsIndexKey() string {
	return fmt.Sprintf("%s:idx:posts", keyPrefix)
}

// checkinKey returns the Redis key for the (team, post) check-in slot.
// SETNX on this key is what enforces the one-check-in-per-pair invariant.
func checkinKey(teamID model.IdentityID, postID model.PostID) string {
	return fmt.Sprintf("%s:checkin:%s:%d", keyPrefix, teamID, postID)
}

// ledgerIndexKey returns the Redis key for the LIST of check-in keys in
// insertion order
func ledgerIndexKey() string {
	return fmt.Sprintf("%s:idx:ledger", keyPrefix)
}

// checkinSeqKey returns the Redis key for the ledger sequence counter
func checkinSeqKey() string {
	return fmt.Sprintf("%s:seq:checkin", keyPrefix)
}
