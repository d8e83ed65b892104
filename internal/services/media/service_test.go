package media_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/forgecommerce/catalog/internal/services/media"
	"github.com/forgecommerce/catalog/internal/storage"
)

// ---------------------------------------------------------------------------
// In-memory storage.Storage
// ---------------------------------------------------------------------------

type mockStorage struct {
	mu    sync.Mutex
	files map[string][]byte
	types map[string]string

	putErr    error
	deleteErr error
	failKeys  map[string]bool
}

func newMockStorage() *mockStorage {
	return &mockStorage{files: make(map[string][]byte), types: make(map[string]string)}
}

func (m *mockStorage) Put(_ context.Context, key string, body io.Reader, contentType string) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.files[key] = data
	m.types[key] = contentType
	m.mu.Unlock()
	return "/media/" + key, nil
}

func (m *mockStorage) Delete(_ context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if m.failKeys[key] {
		return errors.New("delete refused")
	}
	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()
	return nil
}

func (m *mockStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

var _ storage.Storage = (*mockStorage)(nil)

// mockFile satisfies multipart.File over an in-memory buffer.
type mockFile struct {
	*bytes.Reader
}

func (f *mockFile) Close() error { return nil }

func makeUpload(filename, contentType string, data []byte) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: filename,
		Size:     int64(len(data)),
		Header:   textproto.MIMEHeader{"Content-Type": {contentType}},
	}
	return &mockFile{Reader: bytes.NewReader(data)}, header
}

func jpegData() []byte {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	return append(data, bytes.Repeat([]byte{0x00}, 128)...)
}

// ---------------------------------------------------------------------------
// Upload
// ---------------------------------------------------------------------------

func TestUpload_HappyPath(t *testing.T) {
	store := newMockStorage()
	svc := media.NewService(store, 0, nil)

	data := jpegData()
	file, header := makeUpload("Red Shoe.jpg", "image/jpeg", data)

	asset, err := svc.Upload(context.Background(), file, header)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	keyPattern := regexp.MustCompile(`^product-images/[0-9a-f-]{36}-RedShoe\.jpg$`)
	if !keyPattern.MatchString(asset.Key) {
		t.Errorf("key %q does not match %s", asset.Key, keyPattern)
	}
	if asset.URL != "/media/"+asset.Key {
		t.Errorf("URL: got %q, want %q", asset.URL, "/media/"+asset.Key)
	}
	if asset.ContentType != "image/jpeg" {
		t.Errorf("content type: got %q", asset.ContentType)
	}
	if asset.SizeBytes != int64(len(data)) {
		t.Errorf("size: got %d, want %d", asset.SizeBytes, len(data))
	}

	stored := store.files[asset.Key]
	if !bytes.Equal(stored, data) {
		t.Errorf("stored %d bytes, want the full %d-byte upload", len(stored), len(data))
	}
}

func TestUpload_UniqueKeys(t *testing.T) {
	store := newMockStorage()
	svc := media.NewService(store, 0, nil)

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		file, header := makeUpload("same.png", "image/png", []byte{0x89, 0x50, 0x4E, 0x47, 0, 0})
		asset, err := svc.Upload(context.Background(), file, header)
		if err != nil {
			t.Fatalf("Upload %d: %v", i, err)
		}
		if seen[asset.Key] {
			t.Fatalf("duplicate key %q", asset.Key)
		}
		seen[asset.Key] = true
	}
	if store.count() != 3 {
		t.Errorf("expected 3 stored files, got %d", store.count())
	}
}

func TestUpload_ContentTypeCaseInsensitive(t *testing.T) {
	svc := media.NewService(newMockStorage(), 0, nil)

	file, header := makeUpload("a.jpg", "Image/JPEG", jpegData())
	asset, err := svc.Upload(context.Background(), file, header)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if asset.ContentType != "image/jpeg" {
		t.Errorf("content type: got %q, want normalized image/jpeg", asset.ContentType)
	}
}

func TestUpload_FileTooLarge(t *testing.T) {
	store := newMockStorage()
	svc := media.NewService(store, 100, nil)

	file, header := makeUpload("big.jpg", "image/jpeg", jpegData())

	_, err := svc.Upload(context.Background(), file, header)
	if !errors.Is(err, media.ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
	if store.count() != 0 {
		t.Error("rejected upload must not reach storage")
	}
}

func TestUpload_DefaultLimit(t *testing.T) {
	svc := media.NewService(newMockStorage(), -1, nil)
	if svc.MaxSize() != media.DefaultMaxSize {
		t.Errorf("MaxSize = %d, want %d", svc.MaxSize(), media.DefaultMaxSize)
	}

	file, header := makeUpload("big.jpg", "image/jpeg", jpegData())
	header.Size = media.DefaultMaxSize + 1

	if _, err := svc.Upload(context.Background(), file, header); !errors.Is(err, media.ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestUpload_InvalidContentType(t *testing.T) {
	svc := media.NewService(newMockStorage(), 0, nil)

	file, header := makeUpload("file.txt", "text/plain", []byte("not an image"))

	if _, err := svc.Upload(context.Background(), file, header); !errors.Is(err, media.ErrInvalidContentType) {
		t.Errorf("expected ErrInvalidContentType, got %v", err)
	}
}

func TestUpload_InvalidMagicBytes(t *testing.T) {
	svc := media.NewService(newMockStorage(), 0, nil)

	data := append([]byte("%PDF-"), bytes.Repeat([]byte{0x00}, 128)...)
	file, header := makeUpload("fake.jpg", "image/jpeg", data)

	if _, err := svc.Upload(context.Background(), file, header); !errors.Is(err, media.ErrInvalidMagicBytes) {
		t.Errorf("expected ErrInvalidMagicBytes, got %v", err)
	}
}

func TestUpload_StoragePutError(t *testing.T) {
	store := newMockStorage()
	store.putErr = errors.New("simulated storage failure")
	svc := media.NewService(store, 0, nil)

	file, header := makeUpload("test.jpg", "image/jpeg", jpegData())

	_, err := svc.Upload(context.Background(), file, header)
	if err == nil {
		t.Fatal("expected error from storage Put failure")
	}
	if !strings.Contains(err.Error(), "uploading to storage") {
		t.Errorf("error should mention uploading to storage, got: %v", err)
	}
	if media.IsRejected(err) {
		t.Error("storage failures are not upload rejections")
	}
}

// ---------------------------------------------------------------------------
// Delete / Cleanup
// ---------------------------------------------------------------------------

func TestDelete(t *testing.T) {
	store := newMockStorage()
	svc := media.NewService(store, 0, nil)

	file, header := makeUpload("a.jpg", "image/jpeg", jpegData())
	asset, err := svc.Upload(context.Background(), file, header)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.Delete(context.Background(), asset.Key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.count() != 0 {
		t.Errorf("expected storage to be empty, got %d files", store.count())
	}
}

func TestDelete_StorageError(t *testing.T) {
	store := newMockStorage()
	store.deleteErr = errors.New("bucket offline")
	svc := media.NewService(store, 0, nil)

	err := svc.Delete(context.Background(), "product-images/x.jpg")
	if err == nil || !strings.Contains(err.Error(), "product-images/x.jpg") {
		t.Errorf("expected wrapped error naming the key, got %v", err)
	}
}

func TestCleanup_ContinuesPastFailures(t *testing.T) {
	store := newMockStorage()
	store.failKeys = map[string]bool{"product-images/stuck.jpg": true}
	svc := media.NewService(store, 0, nil)

	var assets []media.Asset
	for i := 0; i < 2; i++ {
		file, header := makeUpload("a.jpg", "image/jpeg", jpegData())
		asset, err := svc.Upload(context.Background(), file, header)
		if err != nil {
			t.Fatalf("Upload: %v", err)
		}
		assets = append(assets, asset)
	}

	svc.Cleanup(context.Background(), append([]media.Asset{{Key: "product-images/stuck.jpg"}}, assets...))
	if store.count() != 0 {
		t.Errorf("expected all uploaded images removed, %d remain", store.count())
	}
}
