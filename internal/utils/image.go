package utils

import (
	"encoding/base64"
	"strings"

	"foodgram/domain"

	"github.com/gabriel-vasile/mimetype"
)

const MaxImageSize = 5 << 20

var AllowImage = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type DecodedImage struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeImageDataURI decodes "data:image/<ext>;base64,<payload>". The declared
// type is not trusted, the payload is sniffed instead.
func DecodeImageDataURI(uri string) (DecodedImage, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return DecodedImage{}, domain.ErrInvalidImage
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return DecodedImage{}, domain.ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return DecodedImage{}, domain.ErrInvalidImage.WithCause(err)
		}
	}
	if len(data) == 0 {
		return DecodedImage{}, domain.ErrInvalidImage
	}
	if len(data) > MaxImageSize {
		return DecodedImage{}, domain.ErrImageTooLarge
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), AllowImage...) {
		return DecodedImage{}, domain.ErrInvalidImage
	}

	return DecodedImage{
		Data:        data,
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
	}, nil
}
