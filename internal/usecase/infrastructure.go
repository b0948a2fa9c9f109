package usecase

import "context"

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	// CleanupImages в фоне удаляет объекты по публичным URL; чужие URL пропускаются.
	CleanupImages(urls []string)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type MessageProducer interface {
	PublishEvent(ctx context.Context, event *OutboxEvent) error
}
