package infrastructure

import (
	"testing"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	webpHeader = []byte("RIFF\x24\x00\x00\x00WEBPVP8 ")
)

func TestDetectImageMIME(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		mime string
		ext  string
	}{
		{"png", pngHeader, "image/png", "png"},
		{"jpeg", jpegHeader, "image/jpeg", "jpg"},
		{"webp", webpHeader, "image/webp", "webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, err := DetectImageMIME(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.mime, mime)

			ext, err := GetExtensionFromMIME(mime)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestDetectImageMIMERejectsOtherFiles(t *testing.T) {
	for _, data := range [][]byte{
		[]byte("GIF89a\x01\x00\x01\x00"),
		[]byte("%PDF-1.7\n"),
		[]byte("just some text"),
		nil,
	} {
		_, err := DetectImageMIME(data)
		assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)
	}
}

func TestGetExtensionFromMIMEUnsupported(t *testing.T) {
	ext, err := GetExtensionFromMIME("image/gif")
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)
	assert.Equal(t, "bin", ext)
}
