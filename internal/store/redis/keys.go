package redis

const (
	// KeyPrefix namespaces every linkstash key in Redis.
	KeyPrefix = "stash:"
)

// BookmarkKey returns the Redis key holding one bookmark record.
func BookmarkKey(accessKey, id string) string {
	return KeyPrefix + accessKey + ":bookmark:" + id
}

// BookmarkSetKey returns the Redis key of the set of all bookmark ids
// in a namespace.
func BookmarkSetKey(accessKey string) string {
	return KeyPrefix + accessKey + ":bookmarks"
}

// MemoKey returns the Redis key holding one memo record.
func MemoKey(accessKey, id string) string {
	return KeyPrefix + accessKey + ":memo:" + id
}

// MemoSetKey returns the Redis key of the set of all memo ids in a
// namespace.
func MemoSetKey(accessKey string) string {
	return KeyPrefix + accessKey + ":memos"
}
