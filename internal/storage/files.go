// Package storage persists uploaded paper files on local disk. Rows in the
// database keep only metadata; the bytes live under FileStore.Dir.
package storage

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AllowedUploadTypes is the set of Content-Type values accepted for paper
// uploads. Anything else is rejected before a single byte hits disk.
var AllowedUploadTypes = map[string]struct{}{
	"text/markdown":      {},
	"text/plain":         {},
	"text/x-markdown":    {},
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// TypeAllowed reports whether contentType is accepted for upload. Parameters
// such as "; charset=utf-8" are ignored.
func TypeAllowed(contentType string) bool {
	mt := strings.TrimSpace(contentType)
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	_, ok := AllowedUploadTypes[strings.ToLower(strings.TrimSpace(mt))]
	return ok
}

// FileStore saves and resolves uploaded files under a single directory.
type FileStore struct {
	Dir string
}

// SaveUpload streams r to a new file and returns the stored name. The name is
// a fresh UUID plus the original extension, so user-supplied names never
// touch the filesystem.
func (s FileStore) SaveUpload(originalName string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return name, nil
}

// Resolve returns the absolute path of a stored file, or "" when the file
// does not exist. Path traversal in name resolves to "" as well.
func (s FileStore) Resolve(name string) string {
	if name == "" || name != filepath.Base(name) {
		return ""
	}
	p := filepath.Join(s.Dir, name)
	if fi, err := os.Stat(p); err != nil || fi.IsDir() {
		return ""
	}
	return p
}

// DownloadURL builds the public download link for a stored file.
func (s FileStore) DownloadURL(baseURL, name string) string {
	return fmt.Sprintf("%s/api/v1/utils/download?file_name=%s",
		strings.TrimRight(baseURL, "/"), url.QueryEscape(name))
}
