package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bohm/binstretch-search/pkg/compression"
)

// CompressingStorage wraps a Storage backend and transparently compresses
// objects at rest. The minibs binary cache (internal/engine/minibs/persist.go)
// keeps its exact on-disk layout; compression happens one layer up here, so
// the cached bytes this layer stores are a codec artifact, not part of the
// cache's own format.
type CompressingStorage struct {
	inner Storage
	codec compression.Compressor
}

// NewCompressingStorage wraps inner with codec.
func NewCompressingStorage(inner Storage, codec compression.Compressor) *CompressingStorage {
	return &CompressingStorage{inner: inner, codec: codec}
}

// Upload reads reader fully, compresses it, and uploads the compressed bytes.
func (s *CompressingStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read upload data: %w", err)
	}
	return s.inner.Upload(ctx, key, bytes.NewReader(s.encode(data)))
}

// UploadFile reads localPath fully, compresses it, and uploads the result.
func (s *CompressingStorage) UploadFile(ctx context.Context, key string, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read local file: %w", err)
	}
	return s.inner.Upload(ctx, key, bytes.NewReader(s.encode(data)))
}

// Download downloads the object and decompresses it before returning.
func (s *CompressingStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.inner.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read downloaded data: %w", err)
	}

	decoded, err := s.decode(data)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(decoded)), nil
}

// DownloadFile downloads and decompresses the object into localPath.
func (s *CompressingStorage) DownloadFile(ctx context.Context, key string, localPath string) error {
	rc, err := s.Download(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return fmt.Errorf("failed to write decompressed data: %w", err)
	}
	return nil
}

func (s *CompressingStorage) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *CompressingStorage) Exists(ctx context.Context, key string) (bool, error) {
	return s.inner.Exists(ctx, key)
}

func (s *CompressingStorage) GetURL(key string) string {
	return s.inner.GetURL(key)
}

// encode compresses data with the configured codec. AutoDecompress detects
// the codec from its magic bytes at read time, so no separate format tag
// needs to be stored alongside the object.
func (s *CompressingStorage) encode(data []byte) []byte {
	out, err := s.codec.Compress(data)
	if err != nil {
		return data
	}
	return out
}

// decode auto-detects the codec used at encode time and decompresses.
func (s *CompressingStorage) decode(data []byte) ([]byte, error) {
	out, err := compression.AutoDecompress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress stored object: %w", err)
	}
	return out, nil
}
