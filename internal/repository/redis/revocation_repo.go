package redis

import (
	"context"
	"time"

	"github.com/DRSN-tech/giftshop-backend/pkg/clients"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// RevocationRepo хранит отозванные идентификаторы токенов до конца их срока.
type RevocationRepo struct {
	client *clients.RedisClient
}

func NewRevocationRepo(client *clients.RedisClient) *RevocationRepo {
	return &RevocationRepo{client: client}
}

func (rr *RevocationRepo) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := rr.client.Client.Set(ctx, revocationKey(tokenID), 1, ttl).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (rr *RevocationRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := rr.client.Client.Exists(ctx, revocationKey(tokenID)).Result()
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return n > 0, nil
}

func revocationKey(tokenID string) string {
	return "session:revoked:" + tokenID
}
