// Package assets materializes glTF images to files that a renderer can load
// by path.
package assets

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/qmuntal/gltf"
)

// Texture store errors.
var (
	ErrImageIndex  = errors.New("image index out of range")
	ErrNoImageData = errors.New("image has no data")
	ErrClosed      = errors.New("texture store closed")
)

// TextureStore writes each glTF image to disk once and hands out the path
// to every material that references it. The store owns the files it
// creates and removes them on Close.
type TextureStore struct {
	dir     string
	baseDir string

	paths map[int]string
	owned []string
	mu    sync.RWMutex

	closed bool

	// Stats
	hits   int
	misses int
}

// NewTextureStore creates a store that writes into dir. baseDir resolves
// relative image URIs and is usually the directory of the glTF file.
// An empty dir uses the OS temp directory.
func NewTextureStore(dir, baseDir string) *TextureStore {
	if dir == "" {
		dir = os.TempDir()
	}
	return &TextureStore{
		dir:     dir,
		baseDir: baseDir,
		paths:   make(map[int]string),
	}
}

// Dir returns the directory materialized files are written to.
func (s *TextureStore) Dir() string {
	return s.dir
}

// Materialize returns a file path holding the image at index.
// Files referenced by URI are used in place; embedded images are written
// to the store directory with a unique name.
func (s *TextureStore) Materialize(doc *gltf.Document, index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}
	if path, ok := s.paths[index]; ok {
		s.hits++
		return path, nil
	}
	s.misses++

	if index < 0 || index >= len(doc.Images) {
		return "", fmt.Errorf("%w: %d", ErrImageIndex, index)
	}
	img := doc.Images[index]

	if img.URI != "" && !img.IsEmbeddedResource() {
		p, err := s.externalPath(img.URI)
		if err != nil {
			return "", fmt.Errorf("image %d: %w", index, err)
		}
		s.paths[index] = p
		return p, nil
	}

	data, err := imageData(doc, img)
	if err != nil {
		return "", fmt.Errorf("image %d: %w", index, err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("creating texture dir: %w", err)
	}
	name := uuid.NewString() + imageExtension(img, data)
	p := filepath.Join(s.dir, name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("writing image %d: %w", index, err)
	}

	s.paths[index] = p
	s.owned = append(s.owned, p)
	return p, nil
}

func (s *TextureStore) externalPath(uri string) (string, error) {
	unescaped, err := url.PathUnescape(uri)
	if err != nil {
		unescaped = uri
	}
	p := filepath.FromSlash(unescaped)
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.baseDir, p)
	}
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return p, nil
}

// Paths returns a copy of the image index to path mapping.
func (s *TextureStore) Paths() map[int]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]string, len(s.paths))
	for k, v := range s.paths {
		out[k] = v
	}
	return out
}

// Stats returns cache statistics.
func (s *TextureStore) Stats() (hits, misses int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits, s.misses
}

// Close removes every file the store wrote.
func (s *TextureStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, p := range s.owned {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	s.owned = nil
	s.paths = make(map[int]string)
	s.closed = true
	return errors.Join(errs...)
}

// imageData returns the encoded bytes of an embedded image.
func imageData(doc *gltf.Document, img *gltf.Image) ([]byte, error) {
	if img.BufferView != nil {
		bvIdx := *img.BufferView
		if bvIdx < 0 || bvIdx >= len(doc.BufferViews) {
			return nil, fmt.Errorf("%w: buffer view %d", ErrNoImageData, bvIdx)
		}
		bv := doc.BufferViews[bvIdx]
		if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
			return nil, fmt.Errorf("%w: buffer %d", ErrNoImageData, bv.Buffer)
		}
		buf := doc.Buffers[bv.Buffer].Data
		end := bv.ByteOffset + bv.ByteLength
		if bv.ByteLength == 0 || end > len(buf) {
			return nil, fmt.Errorf("%w: buffer view %d out of range", ErrNoImageData, bvIdx)
		}
		return buf[bv.ByteOffset:end], nil
	}
	if img.IsEmbeddedResource() {
		data, err := img.MarshalData()
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			return data, nil
		}
	}
	return nil, ErrNoImageData
}

// imageExtension picks a file extension from the URI, then the MIME type,
// then the leading bytes of the data.
func imageExtension(img *gltf.Image, data []byte) string {
	if img.URI != "" && !img.IsEmbeddedResource() {
		if ext := filepath.Ext(img.URI); ext != "" {
			return strings.ToLower(ext)
		}
	}
	switch img.MimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return "." + kind.Extension
	}
	return ""
}
