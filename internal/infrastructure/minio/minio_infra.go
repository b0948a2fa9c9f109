package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/cfg"
	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/infrastructure"
	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/jitter"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
)

const cleanupAttempts = 3

// MinioInfrastructure управляет загрузкой и очисткой изображений товаров в MinIO.
type MinioInfrastructure struct {
	minioRepo   usecase.ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	now         func() time.Time
	retryBase   time.Duration
}

func NewMinioInfrastructure(minioRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		minioRepo:   minioRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		now:         time.Now,
		retryBase:   time.Second,
	}
}

// UploadImages проверяет все файлы, затем загружает их параллельно с ограничением одновременных операций.
// URL возвращаются в порядке файлов запроса. При первой ошибке остальные загрузки отменяются,
// а уже загруженные файлы удаляются в фоне.
func (m *MinioInfrastructure) UploadImages(ctx context.Context, req *usecase.UploadImagesReq) (*usecase.UploadImagesRes, error) {
	const op = "MinioInfrastructure.UploadImages"

	images, err := m.prepare(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Отмена остальных загрузок при первой ошибке
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		idx int
		key string
		err error
	}

	resCh := make(chan result, len(images))
	sem := make(chan struct{}, max(m.cfg.UploadImagesLimit, 1))

	for i, image := range images {
		go func() {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				resCh <- result{idx: i, err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			key, err := m.minioRepo.Upload(ctx, image)
			if err != nil {
				err = fmt.Errorf("upload %s failed: %w", req.Images[i].Name, err)
			}
			resCh <- result{idx: i, key: key, err: err}
		}()
	}

	keys := make([]string, len(images))
	var firstErr error
	for range images {
		res := <-resCh
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		keys[res.idx] = res.key
	}

	if firstErr != nil {
		uploaded := make([]string, 0, len(keys))
		for _, key := range keys {
			if key != "" {
				uploaded = append(uploaded, key)
			}
		}
		m.cleanupKeys(uploaded)

		return nil, e.Wrap(op, firstErr)
	}

	urls := make([]string, len(keys))
	for i, key := range keys {
		urls[i] = m.minioRepo.PublicURL(key)
	}

	return usecase.NewUploadImagesRes(urls, keys), nil
}

// prepare валидирует файлы запроса и строит объекты products/{productKey}/{unixMillis+i}.{ext}.
func (m *MinioInfrastructure) prepare(req *usecase.UploadImagesReq) ([]*domain.Image, error) {
	if len(req.Images) == 0 {
		return nil, e.ErrNoImages
	}

	if m.cfg.MaxImagesPerUpload > 0 && len(req.Images) > m.cfg.MaxImagesPerUpload {
		return nil, e.NewFieldError("images", e.ErrTooManyImages)
	}

	base := m.now().UnixMilli()
	images := make([]*domain.Image, 0, len(req.Images))
	for i, image := range req.Images {
		if m.cfg.MaxImageSize > 0 && image.Size > m.cfg.MaxImageSize {
			return nil, e.NewFieldError(image.Name, e.ErrFileTooLarge)
		}

		ext, err := infrastructure.GetExtensionFromMIME(image.MimeType)
		if err != nil {
			return nil, e.NewFieldError(image.Name, err)
		}

		id := fmt.Sprintf("%d", base+int64(i))
		objKey := fmt.Sprintf("products/%s/%s.%s", req.ProductKey, id, ext)
		images = append(images, domain.NewImage(id, m.cfg.BucketName, objKey, image.Data, image.MimeType))
	}

	return images, nil
}

// CleanupImages запускает фоновое удаление объектов по публичным URL.
// URL вне бакета изображений пропускаются.
func (m *MinioInfrastructure) CleanupImages(urls []string) {
	keys := make([]string, 0, len(urls))
	for _, url := range urls {
		if key, ok := m.minioRepo.KeyFromURL(url); ok {
			keys = append(keys, key)
		}
	}

	m.cleanupKeys(keys)
}

func (m *MinioInfrastructure) cleanupKeys(keys []string) {
	if len(keys) == 0 {
		return
	}

	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет указанные объекты из MinIO с экспоненциальной задержкой и jitter.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d objects", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, 30*time.Second)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := m.minioRepo.Delete(ctx, key)
			if err == nil {
				break
			}

			if attempt == cleanupAttempts-1 {
				m.logger.Errorf(err, "%s: giving up on key=%s", op, key)
				break
			}

			select {
			case <-time.After(jitter.ExponentialBackoff(m.retryBase, 8*m.retryBase, attempt, jitter.DefaultJitter)):
			case <-ctx.Done():
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
