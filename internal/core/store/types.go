package store

// Type represents the type of state backend.
type Type string

const (
	// TypeRedis represents a Redis backend.
	TypeRedis Type = "redis"
	// TypeMongoDB represents a MongoDB backend.
	TypeMongoDB Type = "mongodb"
	// TypeMemory represents an in-process backend that does not survive restarts.
	TypeMemory Type = "memory"
)
