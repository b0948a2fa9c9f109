package minio

import (
	"testing"

	"github.com/DRSN-tech/giftshop-backend/internal/cfg"
	"github.com/stretchr/testify/assert"
)

func TestPublicURLAndKeyFromURL(t *testing.T) {
	repo := NewImageRepo(nil, &cfg.MinIOCfg{PublicBaseURL: "https://cdn.example.com/", BucketName: "product-images"})

	url := repo.PublicURL("products/abc/1700000000000.jpg")
	assert.Equal(t, "https://cdn.example.com/product-images/products/abc/1700000000000.jpg", url)

	key, ok := repo.KeyFromURL(url)
	assert.True(t, ok)
	assert.Equal(t, "products/abc/1700000000000.jpg", key)

	for _, foreign := range []string{
		"https://elsewhere.com/product-images/x.jpg",
		"https://cdn.example.com/other-bucket/x.jpg",
		"https://cdn.example.com/product-images/",
	} {
		_, ok := repo.KeyFromURL(foreign)
		assert.False(t, ok, foreign)
	}
}
