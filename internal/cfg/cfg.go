package cfg

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Minio  *MinIOCfg
	Http   *HTTPConfig
	Grpc   *GRPCConfig
	Db     *PGDBCfg
	Redis  *RedisCfg
	Kafka  *KafkaCfg
	Auth   *AuthCfg
	Shop   *ShopCfg
	Policy *PolicyCfg
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
	OutboxBatchSize   int
	OutboxInterval    time.Duration
}

type MinIOCfg struct {
	MinioEndpoint      string // Адрес конечной точки Minio
	BucketName         string // Бакет с изображениями товаров
	MinioRootUser      string // Имя пользователя для доступа к Minio
	MinioRootPassword  string // Пароль для доступа к Minio
	MinioUseSSL        bool
	PublicBaseURL      string // Префикс публичных URL объектов; пусто: http(s)://endpoint
	UploadImagesLimit  int    // Сколько файлов грузится в S3 одновременно
	MaxImageSize       int64  // Максимальный размер одного файла, байт
	MaxImagesPerUpload int    // Максимум файлов в одном запросе
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

type PGDBCfg struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxConns      int32
	MigrationsURL string
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	ListingTTL  time.Duration // TTL кэша публичных выборок каталога
}

type AuthCfg struct {
	JWTSecret                []byte
	Issuer                   string
	SessionTTL               time.Duration
	CookieName               string
	CookieKey                []byte // ключ подписи cookie gorilla/sessions
	CookieSecure             bool
	RequireEmailConfirmation bool
	MinPasswordLength        int
}

// ShopCfg — контакты магазина для ссылок заказа и страницы контактов.
type ShopCfg struct {
	WhatsAppNumber string
	ShopName       string
	MapsLink       string
	Phone          string
	Email          string
	Address        string
}

type PolicyCfg struct {
	StockToggleRoles domain.Roles
	DeleteRoles      domain.Roles
}

// Policy переводит настройки в доменную политику.
func (p *PolicyCfg) Policy() domain.Policy {
	return domain.Policy{StockToggleRoles: p.StockToggleRoles, DeleteRoles: p.DeleteRoles}
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	auth, err := loadAuthCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	policy, err := loadPolicyCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Minio:  minio,
		Http:   http,
		Grpc:   loadGRPCConfig(),
		Db:     db,
		Redis:  redis,
		Kafka:  kafka,
		Auth:   auth,
		Shop:   loadShopCfg(),
		Policy: policy,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "catalog-events"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultBatchSize         = 100
		defaultInterval          = 2 * time.Second
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}

	var brokers []string
	for _, b := range strings.Split(brokerStr, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	batchSize, err := parseIntEnv("OUTBOX_BATCH_SIZE", defaultBatchSize)
	if err != nil {
		return nil, e.Wrap("OUTBOX_BATCH_SIZE", err)
	}

	interval, err := parseDurationEnv("OUTBOX_INTERVAL", defaultInterval)
	if err != nil {
		return nil, e.Wrap("OUTBOX_INTERVAL", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		OutboxBatchSize:   batchSize,
		OutboxInterval:    interval,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL          = false
		defaultEndpoint        = "minio:9000"
		defaultBucket          = "product-images"
		defaultUploadLimit     = 4
		defaultMaxImageSize    = 5 << 20
		defaultImagesPerUpload = 10
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	uploadLimit, err := parseIntEnv("UPLOAD_IMAGES_LIMIT", defaultUploadLimit)
	if err != nil {
		log.Errorf(err, "invalid UPLOAD_IMAGES_LIMIT")
		return nil, err
	}

	maxSize, err := parseIntEnv("MAX_IMAGE_SIZE", defaultMaxImageSize)
	if err != nil {
		log.Errorf(err, "invalid MAX_IMAGE_SIZE")
		return nil, err
	}

	perUpload, err := parseIntEnv("MAX_IMAGES_PER_UPLOAD", defaultImagesPerUpload)
	if err != nil {
		log.Errorf(err, "invalid MAX_IMAGES_PER_UPLOAD")
		return nil, err
	}

	endpoint := getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint)
	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &MinIOCfg{
		MinioEndpoint:      endpoint,
		BucketName:         getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:      getEnv("MINIO_ROOT_USER"),
		MinioRootPassword:  getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:        useSSL,
		PublicBaseURL:      strings.TrimRight(getEnvOrDefault("MINIO_PUBLIC_URL", scheme+"://"+endpoint), "/"),
		UploadImagesLimit:  uploadLimit,
		MaxImageSize:       int64(maxSize),
		MaxImagesPerUpload: perUpload,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 30 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost          = "localhost"
		defaultPort          = "5432"
		defaultSSLMode       = "disable"
		defaultMaxConns      = 10
		defaultMigrationsURL = "file://db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	maxConns, err := parseIntEnv("POSTGRES_MAX_CONNS", defaultMaxConns)
	if err != nil {
		log.Errorf(err, "invalid POSTGRES_MAX_CONNS")
		return nil, err
	}

	return &PGDBCfg{
		Host:          getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:          getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:          user,
		Password:      password,
		DBName:        dbName,
		SSLMode:       getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MaxConns:      int32(maxConns),
		MigrationsURL: getEnvOrDefault("MIGRATIONS_URL", defaultMigrationsURL),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultListingTTL   = 3 * time.Minute
	)

	addr := getEnvOrDefault("REDIS_ADDR", defaultAddr)
	password := getEnv("REDIS_PASSWORD")
	user := getEnv("REDIS_USER")

	dbStr := getEnvOrDefault("REDIS_DB_ID", strconv.Itoa(defaultDB))
	db, err := strconv.Atoi(dbStr)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetriesStr := getEnvOrDefault("MAX_RETRIES", strconv.Itoa(defaultMaxRetries))
	maxRetries, err := strconv.Atoi(maxRetriesStr)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	listingTTL, err := parseDurationEnv("LISTING_TTL", defaultListingTTL)
	if err != nil {
		log.Errorf(err, "invalid LISTING_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        addr,
		Password:    password,
		User:        user,
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		ListingTTL:  listingTTL,
	}, nil
}

func loadAuthCfg(log logger.Logger) (*AuthCfg, error) {
	const (
		minSecretLen             = 32
		defaultIssuer            = "giftshop-backend"
		defaultSessionTTL        = 24 * time.Hour
		defaultCookieName        = "giftshop_session"
		defaultRequireConfirm    = true
		defaultCookieSecure      = false
		defaultMinPasswordLength = 6
	)

	secret := getEnv("JWT_SECRET")
	if len(secret) < minSecretLen {
		err := fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLen)
		log.Errorf(err, "invalid JWT_SECRET")
		return nil, err
	}

	sessionTTL, err := parseDurationEnv("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		log.Errorf(err, "invalid SESSION_TTL")
		return nil, err
	}

	cookieKey, err := loadCookieKey(log)
	if err != nil {
		return nil, err
	}

	cookieSecure, err := strconv.ParseBool(getEnvOrDefault("COOKIE_SECURE", strconv.FormatBool(defaultCookieSecure)))
	if err != nil {
		log.Errorf(err, "invalid COOKIE_SECURE")
		return nil, err
	}

	requireConfirm, err := strconv.ParseBool(
		getEnvOrDefault("REQUIRE_EMAIL_CONFIRMATION", strconv.FormatBool(defaultRequireConfirm)),
	)
	if err != nil {
		log.Errorf(err, "invalid REQUIRE_EMAIL_CONFIRMATION")
		return nil, err
	}

	minPassword, err := parseIntEnv("MIN_PASSWORD_LENGTH", defaultMinPasswordLength)
	if err != nil {
		log.Errorf(err, "invalid MIN_PASSWORD_LENGTH")
		return nil, err
	}

	return &AuthCfg{
		JWTSecret:                []byte(secret),
		Issuer:                   getEnvOrDefault("JWT_ISSUER", defaultIssuer),
		SessionTTL:               sessionTTL,
		CookieName:               getEnvOrDefault("SESSION_COOKIE_NAME", defaultCookieName),
		CookieKey:                cookieKey,
		CookieSecure:             cookieSecure,
		RequireEmailConfirmation: requireConfirm,
		MinPasswordLength:        minPassword,
	}, nil
}

// loadCookieKey читает SESSION_COOKIE_KEY (base64). Без ключа генерируется случайный:
// cookie перестанут читаться после рестарта.
func loadCookieKey(log logger.Logger) ([]byte, error) {
	raw := getEnv("SESSION_COOKIE_KEY")
	if raw == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, e.Wrap("generate cookie key", err)
		}
		log.Warnf("SESSION_COOKIE_KEY is not set, using a random key")
		return key, nil
	}

	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		log.Errorf(err, "invalid SESSION_COOKIE_KEY")
		return nil, e.Wrap("SESSION_COOKIE_KEY", e.ErrIncorrectEnvVariable)
	}

	return key, nil
}

func loadShopCfg() *ShopCfg {
	const (
		defaultWhatsApp = "9779815888721"
		defaultName     = "Nepal Gift House"
		defaultMapsLink = "https://maps.app.goo.gl/4GQduP9t81mdoFk96"
		defaultPhone    = "+977 9815888721"
	)

	return &ShopCfg{
		WhatsAppNumber: getEnvOrDefault("SHOP_WHATSAPP_NUMBER", defaultWhatsApp),
		ShopName:       getEnvOrDefault("SHOP_NAME", defaultName),
		MapsLink:       getEnvOrDefault("SHOP_MAPS_LINK", defaultMapsLink),
		Phone:          getEnvOrDefault("SHOP_PHONE", defaultPhone),
		Email:          getEnv("SHOP_EMAIL"),
		Address:        getEnv("SHOP_ADDRESS"),
	}
}

func loadPolicyCfg() (*PolicyCfg, error) {
	defaults := domain.DefaultPolicy()

	stock, err := parseRolesEnv("CATALOG_STOCK_ROLES", defaults.StockToggleRoles)
	if err != nil {
		return nil, e.Wrap("CATALOG_STOCK_ROLES", err)
	}

	del, err := parseRolesEnv("CATALOG_DELETE_ROLES", defaults.DeleteRoles)
	if err != nil {
		return nil, e.Wrap("CATALOG_DELETE_ROLES", err)
	}

	return &PolicyCfg{StockToggleRoles: stock, DeleteRoles: del}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

func parseRolesEnv(key string, defaultValue domain.Roles) (domain.Roles, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	return domain.ParseRoles(v)
}
