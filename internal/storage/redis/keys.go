package redis

import (
	"fmt"

	"github.com/BayoGabriel/igaming/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "igaming"

// Key generation functions for each entity type

// userKey returns the Redis key for a User hash
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// winsIndexKey returns the Redis key for the ZSET of user IDs scored by wins
func winsIndexKey() string {
	return fmt.Sprintf("%s:idx:wins", keyPrefix)
}

// sessionKey returns the Redis key for a GameSession document
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// activeSessionsKey returns the Redis key for the SET of active session IDs
func activeSessionsKey() string {
	return fmt.Sprintf("%s:idx:sessions:active", keyPrefix)
}

// sessionsByStartKey returns the Redis key for the ZSET of all session IDs
// scored by start time
func sessionsByStartKey() string {
	return fmt.Sprintf("%s:idx:sessions:by_start", keyPrefix)
}

// latestSessionKey returns the Redis key for the most recently created
// session's ID
func latestSessionKey() string {
	return fmt.Sprintf("%s:idx:session:latest", keyPrefix)
}
