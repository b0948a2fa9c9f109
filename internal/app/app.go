package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/giftshop-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/giftshop-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/giftshop-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/giftshop-backend/internal/identity"
	"github.com/DRSN-tech/giftshop-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/giftshop-backend/internal/infrastructure/minio"
	"github.com/DRSN-tech/giftshop-backend/internal/orderlink"
	s3Repo "github.com/DRSN-tech/giftshop-backend/internal/repository/minio"
	"github.com/DRSN-tech/giftshop-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/giftshop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/giftshop-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/giftshop-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/giftshop-backend/internal/session"
	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/DRSN-tech/giftshop-backend/pkg/clients"
	"github.com/DRSN-tech/giftshop-backend/pkg/closer"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/DRSN-tech/giftshop-backend/pkg/postgres"
	"github.com/DRSN-tech/giftshop-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout = 15 * time.Second
	cleanupTimeout  = 5 * time.Second
)

// App собирает зависимости сервиса и управляет его жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	outbox  *kafka.OutboxWorker

	// workersCtx отменяется при остановке: фоновые задачи видят его как сигнал завершения.
	workersCtx    context.Context
	workersCancel context.CancelFunc
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	workersCtx, workersCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:           cfg,
		logger:        logger,
		closer:        closer.NewCloser(0),
		workersCtx:    workersCtx,
		workersCancel: workersCancel,
	}

	if err := a.init(); err != nil {
		workersCancel()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if closeErr := a.closer.Close(ctx); closeErr != nil {
			logger.Warnf("partial init cleanup: %v", closeErr)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	cfg, log := a.cfg, a.logger

	db, err := initPGDB(log, cfg)
	if err != nil {
		return err
	}
	a.closer.Add("postgres", func(_ context.Context) error {
		db.Close()
		return nil
	})

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.Add("redis", redisClient.Close)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	// === Репозитории ===
	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverter())
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.NewCategoryConverter())
	featuredRepo := pgdb.NewFeaturedRepo(db.Pool, pgdbConv.NewFeaturedItemConverter())
	profileRepo := pgdb.NewProfileRepo(db.Pool, pgdbConv.NewProfileConverter())
	userRepo := pgdb.NewUserRepo(db.Pool, pgdbConv.NewUserConverter())
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverter())
	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewProductConverter(), cfg.Redis, log)
	revocationRepo := redis.NewRevocationRepo(redisClient)

	transactor := tr.NewTransactor(db.Pool)
	images := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, context.Background())
	a.closer.Add("minio cleanup", func(ctx context.Context) error {
		cleanupCtx, cancel := context.WithTimeout(ctx, cleanupTimeout)
		defer cancel()
		if err := images.WaitForCleanup(cleanupCtx); err != nil {
			log.Warnf("MinIO cleanup did not finish before shutdown, some objects may remain: %v", err)
		}
		return nil
	})

	// === Usecases ===
	policy := cfg.Policy.Policy()
	catalogUC := usecase.NewCatalogUC(productRepo, categoryRepo, featuredRepo, cacheRepo, log)
	productUC := usecase.NewProductUC(productRepo, outboxRepo, transactor, images, cacheRepo, policy, log)
	categoryUC := usecase.NewCategoryUC(categoryRepo, outboxRepo, transactor, cacheRepo, policy, log)

	// === Идентификация и сессии ===
	tokens := identity.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.SessionTTL)
	identitySvc := identity.NewService(userRepo, revocationRepo, tokens, cfg.Auth, log)
	sessions := session.NewManager(identitySvc, profileRepo, log)
	sessions.Start()
	a.closer.Add("session manager", sessions.Stop)

	// === Kafka ===
	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("kafka producer", producer.Close)
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		log.Warnf("kafka topic check failed, relying on broker auto-create: %v", err)
	}

	a.outbox = kafka.NewOutboxWorker(outboxRepo, log, producer, cfg.Kafka, db.Dsn)
	a.closer.Add("outbox worker", a.outbox.Stop)

	// === Транспорт ===
	grpcSrv := v1Grpc.NewGRPCServer(cfg.Grpc, log)
	grpcSrv.RegisterServices(catalogUC)
	a.grpcSrv = grpcSrv
	a.closer.Add("grpc server", grpcSrv.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, log).Init(&v1Http.Deps{
		Catalog:    catalogUC,
		Products:   productUC,
		Categories: categoryUC,
		Identity:   identitySvc,
		Sessions:   sessions,
		OrderLinks: orderlink.NewFormatter(cfg.Shop),
		Cookies:    v1Http.NewTokenCookies(cfg.Auth),
		Uploads:    cfg.Minio,
	})
	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает серверы и фоновые задачи и блокируется до сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	log := a.logger

	a.outbox.Start(a.workersCtx)

	errCh := make(chan error, 2)
	go func() {
		log.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()

	go func() {
		log.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		log.Errorf(appErr, "server fatal error")
	case <-shutdown:
		log.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	a.workersCancel()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warnf("shutdown timeout: %v", err)
		} else {
			log.Errorf(err, "shutdown finished with errors")
		}
	}

	log.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
