package cfg

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "shop")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "giftshop")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("JWT_SECRET", strings.Repeat("k", 32))
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	c, err := Load(logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, "file://db/migrations", c.Db.MigrationsURL)
	assert.Equal(t, int32(10), c.Db.MaxConns)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "catalog-events", c.Kafka.Topic)
	assert.Equal(t, "product-images", c.Minio.BucketName)
	assert.Equal(t, int64(5<<20), c.Minio.MaxImageSize)
	assert.Equal(t, "http://minio:9000", c.Minio.PublicBaseURL)
	assert.Equal(t, 3*time.Minute, c.Redis.ListingTTL)
	assert.Equal(t, 24*time.Hour, c.Auth.SessionTTL)
	assert.True(t, c.Auth.RequireEmailConfirmation)
	assert.Len(t, c.Auth.CookieKey, 32)
	assert.Equal(t, "9779815888721", c.Shop.WhatsAppNumber)
	assert.Equal(t, "Nepal Gift House", c.Shop.ShopName)
	assert.Equal(t, domain.DefaultPolicy(), c.Policy.Policy())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	key := []byte("0123456789abcdef0123456789abcdef")
	t.Setenv("SESSION_COOKIE_KEY", base64.StdEncoding.EncodeToString(key))
	t.Setenv("REQUIRE_EMAIL_CONFIRMATION", "false")
	t.Setenv("CATALOG_DELETE_ROLES", "admin,staff")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_ENDPOINT", "cdn.example.com")
	t.Setenv("LISTING_TTL", "30s")

	c, err := Load(logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, key, c.Auth.CookieKey)
	assert.False(t, c.Auth.RequireEmailConfirmation)
	assert.Equal(t, domain.Roles{domain.RoleAdmin, domain.RoleStaff}, c.Policy.DeleteRoles)
	assert.Equal(t, "https://cdn.example.com", c.Minio.PublicBaseURL)
	assert.Equal(t, 30*time.Second, c.Redis.ListingTTL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing postgres user", "POSTGRES_USER", ""},
		{"short jwt secret", "JWT_SECRET", "short"},
		{"missing kafka brokers", "KAFKA_BROKERS", ""},
		{"bad duration", "SESSION_TTL", "forever"},
		{"bad role", "CATALOG_STOCK_ROLES", "admin,owner"},
		{"bad cookie key", "SESSION_COOKIE_KEY", "%%%"},
		{"bad max conns", "POSTGRES_MAX_CONNS", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(logger.NewNopLogger())
			assert.Error(t, err)
		})
	}
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("SOME_INT", "x")
	_, err := parseIntEnv("SOME_INT", 1)
	assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)

	t.Setenv("SOME_INT", "")
	v, err := parseIntEnv("SOME_INT", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
