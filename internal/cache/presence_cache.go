package cache

import (
	"fmt"
	"time"
)

const (
	PresenceTTL = 90 * time.Second // Match pong timeout
)

// PresenceCache tracks which users currently hold a websocket connection.
// Membership lives in a set for listing; the per-user key with TTL handles
// crashed servers that never sent the offline update.
type PresenceCache struct {
	redis *RedisCache
}

// NewPresenceCache creates a new presence cache
func NewPresenceCache(redis *RedisCache) *PresenceCache {
	return &PresenceCache{redis: redis}
}

func presenceKey(userID string) string {
	return fmt.Sprintf("online:%s", userID)
}

// SetOnline adds a user to the online set
func (pc *PresenceCache) SetOnline(userID string) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetAdd("online:users", userID); err != nil {
		return err
	}
	return pc.redis.Set(presenceKey(userID), []byte("1"), PresenceTTL)
}

// SetOffline removes a user from the online set
func (pc *PresenceCache) SetOffline(userID string) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	if err := pc.redis.SetRemove("online:users", userID); err != nil {
		return err
	}
	return pc.redis.Delete(presenceKey(userID))
}

// IsOnline checks if a user has a live connection
func (pc *PresenceCache) IsOnline(userID string) bool {
	if pc == nil || pc.redis == nil {
		return false
	}
	return pc.redis.Exists(presenceKey(userID))
}

// Refresh extends the TTL for a connected user
func (pc *PresenceCache) Refresh(userID string) error {
	if pc == nil || pc.redis == nil {
		return nil
	}
	return pc.redis.Set(presenceKey(userID), []byte("1"), PresenceTTL)
}

// OnlineUsers returns users with a live connection on any server. Set members
// whose TTL key expired (a server died before sending offline updates) are
// pruned as they are seen.
func (pc *PresenceCache) OnlineUsers() []string {
	if pc == nil || pc.redis == nil {
		return nil
	}
	members, err := pc.redis.SetMembers("online:users")
	if err != nil {
		return nil
	}

	online := members[:0]
	for _, userID := range members {
		if pc.IsOnline(userID) {
			online = append(online, userID)
		} else {
			_ = pc.redis.SetRemove("online:users", userID)
		}
	}
	return online
}
