package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/disintegration/imaging"
)

var ErrMediaDisabled = errors.New("media uploads are not configured")

type UploadedImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Bytes    int    `json:"bytes"`
}

// MediaService shrinks product images and hosts them on Cloudinary.
type MediaService struct {
	logger *gecho.Logger
	cfg    *structs.MediaConfig
	cld    *cloudinary.Cloudinary
}

func NewMediaService(logger *gecho.Logger, cfg *structs.MediaConfig) (*MediaService, error) {
	ms := &MediaService{logger: logger, cfg: cfg}
	if cfg.CloudinaryURL == "" {
		return ms, nil
	}
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	ms.cld = cld
	return ms, nil
}

func (ms *MediaService) Enabled() bool {
	return ms.cld != nil
}

// Optimize decodes an image, fits it inside the configured bounding box
// and re-encodes it as JPEG.
func (ms *MediaService) Optimize(r io.Reader) ([]byte, int, int, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if limit := ms.cfg.MaxDimension; limit > 0 && (bounds.Dx() > limit || bounds.Dy() > limit) {
		img = imaging.Fit(img, limit, limit, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(ms.cfg.Quality)); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode image: %w", err)
	}
	out := img.Bounds()
	return buf.Bytes(), out.Dx(), out.Dy(), nil
}

// UploadProductImage optimizes and uploads an image, returning its URL.
func (ms *MediaService) UploadProductImage(ctx context.Context, r io.Reader) (*UploadedImage, error) {
	if ms.cld == nil {
		return nil, ErrMediaDisabled
	}

	data, width, height, err := ms.Optimize(r)
	if err != nil {
		return nil, err
	}

	res, err := ms.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{Folder: ms.cfg.Folder})
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("upload failed: %s", res.Error.Message)
	}

	ms.logger.Info("Product image uploaded",
		gecho.Field("public_id", res.PublicID),
		gecho.Field("bytes", len(data)),
	)
	return &UploadedImage{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Width:    width,
		Height:   height,
		Bytes:    len(data),
	}, nil
}

// DeleteImage removes an uploaded image by public id.
func (ms *MediaService) DeleteImage(ctx context.Context, publicID string) error {
	if ms.cld == nil {
		return ErrMediaDisabled
	}
	if _, err := ms.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	return nil
}
