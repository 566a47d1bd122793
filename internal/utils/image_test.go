package utils

import (
	"encoding/base64"
	"strings"
	"testing"

	"foodgram/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pngPixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="
	gifPixel = "R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"
)

func TestDecodeImageDataURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		ext     string
		ctype   string
		wantErr error
	}{
		{name: "png", uri: "data:image/png;base64," + pngPixel, ext: ".png", ctype: "image/png"},
		{name: "gif declared as png", uri: "data:image/png;base64," + gifPixel, ext: ".gif", ctype: "image/gif"},
		{name: "missing prefix", uri: pngPixel, wantErr: domain.ErrInvalidImage},
		{name: "not an image type", uri: "data:text/plain;base64," + pngPixel, wantErr: domain.ErrInvalidImage},
		{name: "broken base64", uri: "data:image/png;base64,@@@@", wantErr: domain.ErrInvalidImage},
		{name: "text payload", uri: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello world")), wantErr: domain.ErrInvalidImage},
		{name: "empty payload", uri: "data:image/png;base64,", wantErr: domain.ErrInvalidImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeImageDataURI(tt.uri)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, img.Extension)
			assert.Equal(t, tt.ctype, img.ContentType)
			assert.NotEmpty(t, img.Data)
		})
	}
}

func TestDecodeImageDataURI_TooLarge(t *testing.T) {
	payload := strings.Repeat("A", (MaxImageSize/3+10)*4)
	_, err := DecodeImageDataURI("data:image/png;base64," + payload)
	assert.ErrorIs(t, err, domain.ErrImageTooLarge)
}
