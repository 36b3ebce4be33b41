package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Denylist records revoked tokens in redis until their natural expiry.
// Logout revokes the presented token; Authenticate consults the list so a
// revoked token stops working immediately instead of at expiry.
type Denylist struct {
	client *redis.Client
}

func NewDenylist(redisURL string) (*Denylist, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Denylist{client: redis.NewClient(opt)}, nil
}

func (d *Denylist) Revoke(ctx context.Context, token string, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denyKey(token), "1", ttl).Err()
}

func (d *Denylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	err := d.client.Get(ctx, denyKey(token)).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *Denylist) Close() error {
	return d.client.Close()
}

func denyKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:revoked:" + hex.EncodeToString(sum[:])
}
