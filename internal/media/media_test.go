package media

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeUploader struct {
	mu       sync.Mutex
	objects  map[string]string
	inFlight int32
	peak     int32
	failOn   string
}

func (f *fakeUploader) Upload(ctx context.Context, object, contentType string, data []byte) (string, int64, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if n <= p || atomic.CompareAndSwapInt32(&f.peak, p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	if f.failOn != "" && string(data) == f.failOn {
		return "", 0, errors.New("bucket refused")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[object] = contentType
	return "https://cdn.test/" + object + "#" + string(data), int64(len(data)), nil
}

func (f *fakeUploader) DeletePrefix(ctx context.Context, prefix string) error { return nil }

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func TestDecodeBase64(t *testing.T) {
	data, mime, err := DecodeBase64("data:image/png;base64," + b64("png-bytes"))
	if err != nil || string(data) != "png-bytes" || mime != "image/png" {
		t.Fatalf("data URL: %q %q %v", data, mime, err)
	}
	data, mime, err = DecodeBase64(b64("raw"))
	if err != nil || string(data) != "raw" || mime != "" {
		t.Fatalf("raw: %q %q %v", data, mime, err)
	}
	for _, bad := range []string{"data:image/png;base64", "!!!", ""} {
		if _, _, err := DecodeBase64(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestUploadOne_ObjectNameAndPassThrough(t *testing.T) {
	up := &fakeUploader{}
	url, err := UploadOne(context.Background(), up, AcademyPrefix(7, "Logo"), Item{DataBase64: "data:image/webp;base64," + b64("x")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.test/academics/7/logo/") || !strings.Contains(url, ".webp#") {
		t.Fatalf("unexpected url %q", url)
	}

	url, err = UploadOne(context.Background(), nil, "p", Item{URL: " https://old/url.png "})
	if err != nil || url != "https://old/url.png" {
		t.Fatalf("pass-through: %q %v", url, err)
	}
	if _, err := UploadOne(context.Background(), nil, "p", Item{DataBase64: b64("x")}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := UploadOne(context.Background(), up, "p", Item{}); err == nil {
		t.Fatalf("expected error for empty item")
	}
}

func TestUploadMany_BoundedAndOrdered(t *testing.T) {
	up := &fakeUploader{}
	items := make([]Item, 12)
	for i := range items {
		items[i] = Item{FileName: "g.jpg", DataBase64: b64(string(rune('a' + i)))}
	}

	urls, err := UploadMany(context.Background(), up, "academics/1/gallery", items)
	if err != nil {
		t.Fatalf("upload many: %v", err)
	}
	for i, u := range urls {
		if !strings.HasSuffix(u, "#"+string(rune('a'+i))) {
			t.Fatalf("url %d out of order: %q", i, u)
		}
	}
	if p := atomic.LoadInt32(&up.peak); p > MaxParallelUploads || p < 1 {
		t.Fatalf("peak concurrency %d outside 1..%d", p, MaxParallelUploads)
	}
}

func TestUploadMany_ReturnsFailure(t *testing.T) {
	up := &fakeUploader{failOn: "bad"}
	items := []Item{
		{FileName: "1.jpg", DataBase64: b64("ok")},
		{FileName: "2.jpg", DataBase64: b64("bad")},
		{FileName: "3.jpg", DataBase64: b64("ok2")},
	}
	urls, err := UploadMany(context.Background(), up, "p", items)
	if err == nil || urls != nil {
		t.Fatalf("expected failure, got %v %v", urls, err)
	}
	if !strings.Contains(err.Error(), "2.jpg") {
		t.Fatalf("expected failing item in error, got %v", err)
	}
}

func TestUploadMany_Empty(t *testing.T) {
	urls, err := UploadMany(context.Background(), nil, "p", nil)
	if err != nil || len(urls) != 0 {
		t.Fatalf("unexpected: %v %v", urls, err)
	}
}
