// Package uploads stores menu item images and returns the path they are served from.
package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hannas-kitchen/internal/storage"
)

// PublicPrefix is where the API serves images saved on disk.
const PublicPrefix = "/uploads/"

type Store interface {
	// Save stores the image and returns its public URL.
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// GenerateName prefixes the original file name with the current unix milliseconds.
func GenerateName(now time.Time, original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.ReplaceAll(base, " ", "_")
	if base == "." || base == "/" || base == "" {
		base = "image"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}

// Disk writes images below a local directory.
type Disk struct {
	Dir string
	now func() time.Time
}

func NewDisk(dir string) *Disk {
	return &Disk{Dir: dir, now: time.Now}
}

func (d *Disk) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", storage.Unavailable("create upload folder", err)
	}

	name := GenerateName(d.now(), filename)
	path := filepath.Join(d.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", storage.Unavailable("create image file", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", storage.Unavailable("write image file", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", storage.Unavailable("close image file", err)
	}
	return PublicPrefix + name, nil
}
