package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
)

type fakeStore struct {
	key, contentType string
	body             []byte
}

func (f *fakeStore) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.key = *in.Key
	f.contentType = *in.ContentType
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, wantW, wantH int
	}{
		{800, 600, 800, 600},
		{3200, 1600, 1600, 800},
		{1000, 4000, 400, 1600},
		{1600, 1600, 1600, 1600},
		{10000, 1, 1600, 1},
	}
	for _, tt := range tests {
		w, h := fitWithin(tt.w, tt.h, MaxDimension)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitWithin(%d, %d) = %d, %d; want %d, %d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestUploadScalesAndStores(t *testing.T) {
	store := &fakeStore{}
	u := NewUploader(store, "refs")
	u.newKey = func() string { return "references/fixed.webp" }

	var encoded image.Rectangle
	u.encode = func(w io.Writer, img image.Image) error {
		encoded = img.Bounds()
		return png.Encode(w, img)
	}

	key, err := u.Upload(context.Background(), pngOf(t, 3200, 2400))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if key != "references/fixed.webp" || store.key != key {
		t.Fatalf("unexpected key %s / %s", key, store.key)
	}
	if store.contentType != "image/webp" || len(store.body) == 0 {
		t.Fatalf("unexpected object %q, %d bytes", store.contentType, len(store.body))
	}
	if encoded.Dx() != 1600 || encoded.Dy() != 1200 {
		t.Fatalf("expected 1600x1200, got %v", encoded)
	}
}

func TestUploadRejectsBadInput(t *testing.T) {
	u := NewUploader(&fakeStore{}, "refs")

	tests := []struct {
		name string
		raw  []byte
		code string
	}{
		{"empty", nil, "required"},
		{"not an image", []byte("hello"), "unsupported_image"},
		{"too large", make([]byte, MaxUploadBytes+1), "too_large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := u.Upload(context.Background(), tt.raw)
			ve, ok := httperr.AsValidation(err)
			if !ok || ve.Code != tt.code {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

// pngHeader returns a PNG holding only a valid IHDR chunk for w x h RGBA.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA

	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	crc := crc32.NewIEEE()
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	crc.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc.Sum32())
	return buf.Bytes()
}

func TestUploadRejectsHugeDimensions(t *testing.T) {
	store := &fakeStore{}
	u := NewUploader(store, "refs")
	u.encode = func(io.Writer, image.Image) error {
		t.Fatal("encoder reached for an oversized image")
		return nil
	}

	raw := pngHeader(65535, 65535)
	if len(raw) > 100 {
		t.Fatalf("crafted header unexpectedly large: %d bytes", len(raw))
	}

	_, err := u.Upload(context.Background(), raw)
	ve, ok := httperr.AsValidation(err)
	if !ok || ve.Field != "file" || ve.Code != "too_large" {
		t.Fatalf("expected file/too_large, got %v", err)
	}
	if store.key != "" {
		t.Fatal("oversized image was stored")
	}
}

func TestUploadDisabled(t *testing.T) {
	var u *Uploader
	if _, err := u.Upload(context.Background(), []byte("x")); err != ErrDisabled {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}
