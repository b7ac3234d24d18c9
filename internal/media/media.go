package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"academy-api/internal/util"

	"github.com/google/uuid"
)

// MaxParallelUploads bounds UploadMany.
const MaxParallelUploads = 4

var ErrNotConfigured = errors.New("media storage is not configured")

type Uploader interface {
	Upload(ctx context.Context, object, contentType string, data []byte) (url string, size int64, err error)
	DeletePrefix(ctx context.Context, prefix string) error
}

// Item is one file in an upload request. Either DataBase64 (raw or data URL)
// or an already uploaded URL must be set.
type Item struct {
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	DataBase64 string `json:"data_base64"`
	URL        string `json:"url"`
}

// DecodeBase64 accepts a bare base64 payload or a data URL
// ("data:image/png;base64,...") and returns the bytes and the declared mime.
func DecodeBase64(raw string) ([]byte, string, error) {
	raw = strings.TrimSpace(raw)
	mime := ""
	if strings.HasPrefix(raw, "data:") {
		i := strings.Index(raw, ",")
		if i < 0 {
			return nil, "", errors.New("malformed data URL")
		}
		meta := strings.TrimPrefix(raw[:i], "data:")
		mime = strings.TrimSuffix(meta, ";base64")
		raw = raw[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty payload")
	}
	return data, mime, nil
}

// ObjectName builds "<prefix>/<uuid><ext>".
func ObjectName(prefix, fileName, mime string) string {
	return fmt.Sprintf("%s/%s%s", strings.TrimSuffix(prefix, "/"), uuid.NewString(), util.ExtFromFilenameOrMime(fileName, mime))
}

// AcademyPrefix is the object prefix for one academy's media of a kind
// (logo, gallery, coach ...).
func AcademyPrefix(academyID uint, kind string) string {
	return fmt.Sprintf("academics/%d/%s", academyID, util.SanitizePart(kind))
}

// UploadOne uploads a single item under prefix and returns its URL. Items that
// carry a URL and no data pass through untouched.
func UploadOne(ctx context.Context, up Uploader, prefix string, it Item) (string, error) {
	if strings.TrimSpace(it.DataBase64) == "" {
		if u := strings.TrimSpace(it.URL); u != "" {
			return u, nil
		}
		return "", errors.New("missing both data_base64 and url")
	}
	if up == nil {
		return "", ErrNotConfigured
	}

	data, mime, err := DecodeBase64(it.DataBase64)
	if err != nil {
		return "", err
	}
	if it.MimeType != "" {
		mime = it.MimeType
	}
	if mime == "" {
		mime = "application/octet-stream"
	}

	url, _, err := up.Upload(ctx, ObjectName(prefix, it.FileName, mime), mime, data)
	return url, err
}

// UploadMany uploads items with at most MaxParallelUploads in flight. URLs are
// returned in input order; on failure the error of the lowest failing index is
// returned and uploads not yet started are skipped.
func UploadMany(ctx context.Context, up Uploader, prefix string, items []Item) ([]string, error) {
	urls := make([]string, len(items))
	if len(items) == 0 {
		return urls, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make([]error, len(items))
	sem := make(chan struct{}, MaxParallelUploads)
	var wg sync.WaitGroup

	for i, it := range items {
		wg.Add(1)
		go func(i int, it Item) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			url, err := UploadOne(ctx, up, prefix, it)
			if err != nil {
				errs[i] = fmt.Errorf("upload %d (%s): %w", i+1, strings.TrimSpace(it.FileName), err)
				cancel()
				return
			}
			urls[i] = url
		}(i, it)
	}
	wg.Wait()

	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil || (errors.Is(first, context.Canceled) && !errors.Is(err, context.Canceled)) {
			first = err
		}
	}
	if first != nil {
		return nil, first
	}
	return urls, nil
}
