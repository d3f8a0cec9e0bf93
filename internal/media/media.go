package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	xwebp "golang.org/x/image/webp"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
)

const (
	MaxUploadBytes = 10 << 20
	MaxDimension   = 1600
	// MaxPixels bounds the decoded size; headers are checked before decoding.
	MaxPixels   = 40_000_000
	webpQuality = 80
)

var (
	ErrDisabled = errors.New("media: object storage not configured")

	errTooManyPixels = errors.New("media: image dimensions too large")
)

// ObjectStore is the part of *s3.Client the uploader needs.
type ObjectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds a client for AWS or any S3 compatible endpoint.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

// Uploader stores appointment reference images as WebP objects and returns
// the object key used as the appointment's reference handle.
type Uploader struct {
	store  ObjectStore
	bucket string
	encode func(w io.Writer, img image.Image) error
	newKey func() string
}

func NewUploader(store ObjectStore, bucket string) *Uploader {
	return &Uploader{
		store:  store,
		bucket: bucket,
		encode: encodeWebP,
		newKey: func() string { return "references/" + uuid.NewString() + ".webp" },
	}
}

func (u *Uploader) Upload(ctx context.Context, raw []byte) (string, error) {
	if u == nil || u.store == nil || u.bucket == "" {
		return "", ErrDisabled
	}
	if len(raw) == 0 {
		return "", httperr.ErrValidation("file", "required")
	}
	if len(raw) > MaxUploadBytes {
		return "", httperr.ErrValidation("file", "too_large")
	}

	img, err := decode(raw)
	if errors.Is(err, errTooManyPixels) {
		return "", httperr.ErrValidation("file", "too_large")
	}
	if err != nil {
		return "", httperr.ErrValidation("file", "unsupported_image")
	}

	var buf bytes.Buffer
	if err := u.encode(&buf, downscale(img, MaxDimension)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	key := u.newKey()
	_, err = u.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return key, nil
}

// decode reads the header first so a small file declaring huge dimensions
// is refused before any pixel buffer is allocated.
func decode(raw []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		var webpErr error
		if cfg, webpErr = xwebp.DecodeConfig(bytes.NewReader(raw)); webpErr != nil {
			return nil, err
		}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("media: empty image %dx%d", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, errTooManyPixels
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err == nil {
		return img, nil
	}
	if decoded, webpErr := xwebp.Decode(bytes.NewReader(raw)); webpErr == nil {
		return decoded, nil
	}
	return nil, err
}

func encodeWebP(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Quality: webpQuality})
}

// fitWithin scales (w, h) down to fit a max x max box, keeping the aspect
// ratio. Images already inside the box are returned unchanged.
func fitWithin(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		nh := h * max / w
		if nh < 1 {
			nh = 1
		}
		return max, nh
	}
	nw := w * max / h
	if nw < 1 {
		nw = 1
	}
	return nw, max
}

func downscale(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), max)
	if w == b.Dx() && h == b.Dy() {
		return img
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
