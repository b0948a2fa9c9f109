package minio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/cfg"
	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const publicPrefix = "https://cdn.test/product-images/"

type fakeImageRepo struct {
	mu        sync.Mutex
	uploaded  map[string]string
	deleted   []string
	failName  string
	deleteErr int
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{uploaded: make(map[string]string)}
}

func (f *fakeImageRepo) Upload(_ context.Context, image *domain.Image) (string, error) {
	if f.failName != "" && string(image.Data) == f.failName {
		return "", errors.New("s3 unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded[image.ObjectKey] = image.ContentType
	return image.ObjectKey, nil
}

func (f *fakeImageRepo) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr > 0 {
		f.deleteErr--
		return errors.New("transient")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImageRepo) PublicURL(key string) string {
	return publicPrefix + key
}

func (f *fakeImageRepo) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, publicPrefix) {
		return "", false
	}
	return strings.TrimPrefix(url, publicPrefix), true
}

func newInfra(repo *fakeImageRepo) *MinioInfrastructure {
	infra := NewMinioInfrastructure(repo, &cfg.MinIOCfg{
		BucketName:         "product-images",
		UploadImagesLimit:  2,
		MaxImageSize:       10,
		MaxImagesPerUpload: 3,
	}, logger.NewNopLogger(), context.Background())
	infra.now = func() time.Time { return time.UnixMilli(1700000000000) }
	infra.retryBase = time.Millisecond
	return infra
}

func image(name, mime string) usecase.ProductImage {
	return usecase.ProductImage{Data: []byte(name), MimeType: mime, Size: int64(len(name)), Name: name}
}

func TestUploadImagesKeepsRequestOrder(t *testing.T) {
	repo := newFakeImageRepo()
	infra := newInfra(repo)

	res, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq("p1", []usecase.ProductImage{
		image("a", "image/jpeg"),
		image("b", "image/png"),
		image("c", "image/webp"),
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"products/p1/1700000000000.jpg",
		"products/p1/1700000000001.png",
		"products/p1/1700000000002.webp",
	}, res.Keys)
	assert.Equal(t, publicPrefix+"products/p1/1700000000000.jpg", res.URLs[0])
	assert.Equal(t, "image/png", repo.uploaded["products/p1/1700000000001.png"])
}

func TestUploadImagesValidatesBeforeUploading(t *testing.T) {
	tests := []struct {
		name   string
		images []usecase.ProductImage
		err    error
	}{
		{"empty", nil, e.ErrNoImages},
		{"too many", []usecase.ProductImage{
			image("a", "image/png"), image("b", "image/png"), image("c", "image/png"), image("d", "image/png"),
		}, e.ErrTooManyImages},
		{"too large", []usecase.ProductImage{image("a", "image/png"), image("much-too-large", "image/png")}, e.ErrFileTooLarge},
		{"gif", []usecase.ProductImage{image("a", "image/gif")}, e.ErrUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeImageRepo()
			_, err := newInfra(repo).UploadImages(context.Background(), usecase.NewUploadImagesReq("p1", tt.images))

			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, repo.uploaded)
		})
	}
}

func TestUploadImagesCleansUpAfterFailure(t *testing.T) {
	repo := newFakeImageRepo()
	repo.failName = "bad"
	infra := newInfra(repo)

	_, err := infra.UploadImages(context.Background(), usecase.NewUploadImagesReq("p1", []usecase.ProductImage{
		image("ok", "image/png"),
		image("bad", "image/png"),
	}))
	require.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, infra.WaitForCleanup(ctx))

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.ElementsMatch(t, keysOf(repo.uploaded), repo.deleted)
}

func TestCleanupImagesSkipsForeignURLsAndRetries(t *testing.T) {
	repo := newFakeImageRepo()
	repo.deleteErr = 1
	infra := newInfra(repo)

	infra.CleanupImages([]string{
		publicPrefix + "products/p1/1.jpg",
		"https://example.com/external.jpg",
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, infra.WaitForCleanup(ctx))

	assert.Equal(t, []string{"products/p1/1.jpg"}, repo.deleted)
}

func keysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
