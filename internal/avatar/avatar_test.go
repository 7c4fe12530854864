package avatar

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Paintersrp/dash/internal/config"
)

type fakeUploader struct {
	key, contentType string
	body             []byte
	err              error
}

func (f *fakeUploader) Upload(_ context.Context, key, contentType string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key, f.contentType = key, contentType
	f.body, _ = io.ReadAll(body)
	return "https://cdn.example.com/" + key, nil
}

type fakeProfile struct{ url string }

func (f *fakeProfile) UpdateAvatar(_ context.Context, url string) error {
	f.url = url
	return nil
}

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, bytes.Repeat([]byte{'x'}, size), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"me.PNG", "image/png", false},
		{"me.jpg", "image/jpeg", false},
		{"me.webp", "image/webp", false},
		{"me.svg", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := ContentType(tt.name)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ContentType(%q) error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("ContentType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestKey(t *testing.T) {
	k := Key("/avatars/", "u1", "Me.JPG")
	if !strings.HasPrefix(k, "avatars/u1/") || !strings.HasSuffix(k, ".jpg") {
		t.Fatalf("unexpected key %q", k)
	}
	if Key("", "u1", "a.png") == Key("", "u1", "a.png") {
		t.Fatalf("expected a fresh key per upload")
	}
}

func TestSetFromFile(t *testing.T) {
	up := &fakeUploader{}
	prof := &fakeProfile{}
	file := writeFile(t, "me.png", 10)

	url, err := SetFromFile(context.Background(), up, prof, "avatars", "u1", file)
	if err != nil {
		t.Fatalf("SetFromFile returned error: %v", err)
	}
	if prof.url != url || up.contentType != "image/png" || len(up.body) != 10 {
		t.Fatalf("unexpected upload: url=%q profile=%q type=%q", url, prof.url, up.contentType)
	}
}

func TestSetFromFileRejects(t *testing.T) {
	prof := &fakeProfile{}
	ctx := context.Background()

	if _, err := SetFromFile(ctx, &fakeUploader{}, prof, "", "u1", writeFile(t, "big.png", MaxSize+1)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := SetFromFile(ctx, &fakeUploader{}, prof, "", "u1", "x.bmp"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	failing := &fakeUploader{err: errors.New("denied")}
	if _, err := SetFromFile(ctx, failing, prof, "", "u1", writeFile(t, "a.gif", 1)); err == nil {
		t.Fatalf("expected upload error")
	}
	if prof.url != "" {
		t.Fatalf("profile must not change when the upload fails")
	}
}

func TestNewS3UploaderRequiresBucket(t *testing.T) {
	if _, err := NewS3Uploader(context.Background(), config.AvatarConfig{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestS3UploaderPutsObject(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "none"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "none"))
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	var mu sync.Mutex
	var gotPath, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	up, err := NewS3Uploader(context.Background(), config.AvatarConfig{
		Bucket:          "avatars",
		Endpoint:        srv.URL,
		PublicURL:       "https://cdn.example.com/",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	if err != nil {
		t.Fatalf("NewS3Uploader returned error: %v", err)
	}

	url, err := up.Upload(context.Background(), "u1/pic.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if url != "https://cdn.example.com/u1/pic.png" {
		t.Fatalf("url = %q", url)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotPath != "/avatars/u1/pic.png" || gotType != "image/png" || string(gotBody) != "png-bytes" {
		t.Fatalf("unexpected request: path=%q type=%q body=%q", gotPath, gotType, gotBody)
	}
}
