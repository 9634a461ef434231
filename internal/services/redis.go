package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dkmwangi/cabride-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// Sessions live for a week, matching token expiry.
const sessionTTL = 7 * 24 * time.Hour

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// Session is the server-side record of a logged-in user. It is created at
// login and removed at logout; views resolve the current user from it instead
// of an ad-hoc locally stored identifier.
type Session struct {
	UserID   uint        `json:"userId"`
	UserRole models.Role `json:"userRole"`
	Created  int64       `json:"created"`
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:user:%d", userID)
}

// SetSession stores the session for a user with a fixed TTL.
func SetSession(ctx context.Context, userID uint, role models.Role) error {
	session := Session{
		UserID:   userID,
		UserRole: role,
		Created:  time.Now().Unix(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return RedisClient.Set(ctx, sessionKey(userID), data, sessionTTL).Err()
}

// GetSession retrieves the session for a user, if one exists.
func GetSession(ctx context.Context, userID uint) (*Session, error) {
	data, err := RedisClient.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// ClearSession removes the session for a user at logout.
func ClearSession(ctx context.Context, userID uint) error {
	return RedisClient.Del(ctx, sessionKey(userID)).Err()
}
