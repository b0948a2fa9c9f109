package infrastructure

import (
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/gabriel-vasile/mimetype"
)

// GetExtensionFromMIME возвращает расширение файла по MIME-типу изображения.
// Поддерживает jpeg, jpg, png, webp. Возвращает ошибку e.ErrUnsupportedMediaType для неподдерживаемых типов.
func GetExtensionFromMIME(mime string) (string, error) {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "jpg", nil
	case "image/png":
		return "png", nil
	case "image/webp":
		return "webp", nil
	default:
		return "bin", e.ErrUnsupportedMediaType
	}
}

// DetectImageMIME определяет тип изображения по содержимому, а не по заявленному Content-Type.
func DetectImageMIME(data []byte) (string, error) {
	mime := mimetype.Detect(data)
	for _, allowed := range []string{"image/jpeg", "image/png", "image/webp"} {
		if mime.Is(allowed) {
			return allowed, nil
		}
	}

	return "", e.Wrap(mime.String(), e.ErrUnsupportedMediaType)
}
