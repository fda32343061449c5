package service

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"path"
	"strings"

	"github.com/adrium/goheif"
)

// ErrConversionFailed means a HEIC asset could not be converted. Handlers
// surface this with a remediation hint instead of a generic failure.
var ErrConversionFailed = errors.New("failed to convert HEIC image")

// DefaultJPEGQuality is the encode quality used when none is configured.
const DefaultJPEGQuality = 90

// ImageAsset is an in-memory binary image plus its declared metadata.
type ImageAsset struct {
	Data      []byte
	MediaType string
	FileName  string
}

// NormalizeImage converts HEIC/HEIF assets into JPEG at the given quality.
// Assets in any other format are returned unchanged.
func NormalizeImage(asset *ImageAsset, quality int) (*ImageAsset, error) {
	if !isHEIC(asset.MediaType) {
		return asset, nil
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	img, err := goheif.Decode(bytes.NewReader(asset.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	name := strings.TrimSuffix(asset.FileName, path.Ext(asset.FileName)) + ".jpg"
	return &ImageAsset{
		Data:      buf.Bytes(),
		MediaType: "image/jpeg",
		FileName:  name,
	}, nil
}

func isHEIC(mediaType string) bool {
	t := strings.ToLower(mediaType)
	return strings.Contains(t, "heic") || strings.Contains(t, "heif")
}
