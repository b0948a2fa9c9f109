package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/DRSN-tech/giftshop-backend/internal/cfg"
	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/giftshop-backend/pkg/clients"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// catalogVersionKey — счётчик поколений кэша. Инкремент делает все прежние ключи недостижимыми.
const catalogVersionKey = "catalog:version"

// setListingScript пишет выборку, только если поколение не сменилось после чтения.
// KEYS[1] - счётчик поколений, KEYS[2] - ключ выборки;
// ARGV[1] - поколение, ARGV[2] - данные, ARGV[3] - TTL в миллисекундах.
var setListingScript = r.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// CacheRepo кэширует публичные выборки каталога.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetProducts возвращает выборку из кэша и поколение, в котором её искали.
// При промахе возвращает (nil, version, false, nil).
func (c *CacheRepo) GetProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, bool, error) {
	version, err := c.version(ctx)
	if err != nil {
		return nil, 0, false, e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := c.client.Client.Get(ctx, listingKey(version, q)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, version, false, nil
		}
		return nil, 0, false, e.Wrap(whereami.WhereAmI(), err)
	}

	var models []converter.ProductRedisModel
	if err := json.Unmarshal(data, &models); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, version, false, nil
	}

	return c.conv.ToArrEntity(models), version, true, nil
}

// SetProducts кэширует выборку на cfg.ListingTTL в поколении version.
// Если поколение уже сменилось, запись молча пропускается.
func (c *CacheRepo) SetProducts(ctx context.Context, version int64, q domain.ProductQuery, products []domain.Product) error {
	data, err := json.Marshal(c.conv.ToArrRedisModel(products))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	keys := []string{catalogVersionKey, listingKey(version, q)}
	stored, err := setListingScript.Run(ctx, c.client.Client, keys,
		strconv.FormatInt(version, 10), data, c.cfg.ListingTTL.Milliseconds()).Int()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if stored == 0 {
		c.logger.Debugf("Skipped caching listing of stale generation %d", version)
	}

	return nil
}

// Invalidate сбрасывает все выборки, переключая поколение. Старые ключи истекут по TTL.
func (c *CacheRepo) Invalidate(ctx context.Context) error {
	if err := c.client.Client.Incr(ctx, catalogVersionKey).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheRepo) version(ctx context.Context) (int64, error) {
	v, err := c.client.Client.Get(ctx, catalogVersionKey).Int64()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return 0, nil
		}
		return 0, err
	}

	return v, nil
}

// listingKey формирует Redis-ключ выборки внутри поколения кэша.
func listingKey(version int64, q domain.ProductQuery) string {
	category := domain.FilterAll
	if q.CategoryID != nil {
		category = q.CategoryID.String()
	}

	status := string(q.Status)
	if status == "" {
		status = domain.FilterAll
	}

	return fmt.Sprintf("catalog:%d:products:status=%s:category=%s:limit=%d:tag=%s",
		version, status, category, q.Limit, q.Tag)
}
