package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/cfg"
	"github.com/DRSN-tech/giftshop-backend/internal/repository/pgdb"
	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// errPermanent помечает события, которые нельзя опубликовать ни при каком повторе.
var errPermanent = errors.New("permanent publish failure")

// OutboxWorker переносит события из outbox_events в Kafka.
// Просыпается по NOTIFY и по таймеру на случай потерянных уведомлений.
type OutboxWorker struct {
	repo      usecase.OutboxRepository
	logger    logger.Logger
	producer  usecase.MessageProducer
	cfg       *cfg.KafkaCfg
	stop      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	dbConnStr string
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	cfg *cfg.KafkaCfg,
	dbConnStr string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:      repo,
		logger:    logger,
		producer:  producer,
		cfg:       cfg,
		stop:      make(chan struct{}),
		dbConnStr: dbConnStr,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

func (w *OutboxWorker) Stop(_ context.Context) error {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
	return nil
}

func (w *OutboxWorker) run(ctx context.Context) {
	w.logger.Infof("Draining pending outbox events on startup...")
	w.drain(ctx)

	interval := w.cfg.OutboxInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped by context cancellation")
			return
		case <-w.stop:
			w.logger.Infof("Outbox worker stopped")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	var conn *pgx.Conn

	connect := func() error {
		var err error
		conn, err = pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err = conn.Exec(ctx, "LISTEN "+pgdb.OutboxNotifyChannel); err != nil {
			conn.Close(ctx)
			conn = nil
			return e.Wrap("failed to LISTEN", err)
		}

		w.logger.Infof("Subscribed to '%s' channel", pgdb.OutboxNotifyChannel)
		return nil
	}

	if err := connect(); err != nil {
		w.logger.Warnf("Initial LISTEN connect failed, relying on polling: %v", err)
	}
	defer func() {
		if conn != nil {
			conn.Close(context.Background())
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
		}

		if conn == nil {
			if !w.sleep(ctx, 5*time.Second) {
				return
			}
			if err := connect(); err != nil {
				w.logger.Warnf("Reconnect failed: %v", err)
			}
			continue
		}

		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
			conn.Close(ctx)
			conn = nil
			continue
		}

		if notif != nil && notif.Channel == pgdb.OutboxNotifyChannel {
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.drain(ctx)
		}
	}
}

func (w *OutboxWorker) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	case <-w.stop:
		return false
	}
}

// drain обрабатывает пачки, пока outbox не опустеет.
func (w *OutboxWorker) drain(ctx context.Context) {
	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

// processBatch публикует одну пачку. hasMore=false, если пачка пуста
// или хотя бы одно событие вернулось в очередь: повтор будет по таймеру.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	limit := w.cfg.OutboxBatchSize
	if limit <= 0 {
		limit = 100
	}

	events, err := w.repo.GetAndMarkAsProcessing(ctx, limit)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	hasMore := len(events) == limit
	for _, event := range events {
		err := w.producer.PublishEvent(ctx, event)
		switch {
		case err == nil:
		case errors.Is(err, errPermanent):
			w.logger.Errorf(err, "dropping outbox event %s (%s)", event.EventID, event.EventType)
		default:
			if isRetryableError(err) {
				w.logger.Warnf("Temporary Kafka failure for event %s, will retry: %v", event.EventID, err)
			} else {
				w.logger.Errorf(err, "Kafka failure for event %s, will retry", event.EventID)
			}
			if err := w.repo.ReturnToPending(ctx, event.ID); err != nil {
				w.logger.Warnf("return to pending failed: %v", err)
			}
			hasMore = false
			continue
		}

		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	return hasMore, nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
