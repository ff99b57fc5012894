package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestObjectKey(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		wantExt  string
	}{
		{"jpeg", "photo.JPG", ".jpg"},
		{"png", "store front.png", ".png"},
		{"no extension", "photo", ""},
		{"oversized extension truncated", "photo.jpegjpegjpeg", ".jpegjpe"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key := objectKey(tc.filename)
			if !strings.HasPrefix(key, "public/") {
				t.Fatalf("key = %q; want the public/ prefix", key)
			}
			if !strings.HasSuffix(key, tc.wantExt) {
				t.Fatalf("key = %q; want extension %q", key, tc.wantExt)
			}
			if strings.Contains(key, " ") {
				t.Fatalf("key = %q; original filename must not leak into the key", key)
			}
		})
	}
}

func TestObjectKeyUnique(t *testing.T) {
	a := objectKey("a.jpg")
	time.Sleep(time.Millisecond)
	b := objectKey("a.jpg")
	if a == b {
		t.Fatalf("two uploads of the same filename produced the same key %q", a)
	}
}

func TestNewImageStoreMissingSettings(t *testing.T) {
	cases := []struct {
		name string
		opts Options
	}{
		{"no endpoint", Options{AccessKey: "k", SecretKey: "s"}},
		{"no access key", Options{Endpoint: "minio:9000", SecretKey: "s"}},
		{"no secret key", Options{Endpoint: "minio:9000", AccessKey: "k"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewImageStore(context.Background(), tc.opts); err == nil {
				t.Fatal("expected an error for incomplete settings")
			}
		})
	}
}
