package domain

// Image описывает изображение, которое хранится в S3
type Image struct {
	ID          string
	Bucket      string
	ObjectKey   string
	Data        []byte
	Size        int64
	ContentType string // Example: "image/png"
}

func NewImage(id string, bucket string, objectKey string, data []byte, contentType string) *Image {
	return &Image{
		ID:          id,
		Bucket:      bucket,
		ObjectKey:   objectKey,
		Data:        data,
		Size:        int64(len(data)),
		ContentType: contentType,
	}
}
