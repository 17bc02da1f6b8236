package invoice

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("invoice not found")

// Archive keeps generated invoices on local disk for later download.
type Archive struct {
	dir string
}

func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

func (a *Archive) Dir() string { return a.dir }

// FileName is the archived name for an order's invoice.
func FileName(orderID string) string {
	return "invoice-" + orderID + ".pdf"
}

func (a *Archive) Save(orderID string, pdf []byte) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create invoice dir: %w", err)
	}
	path := filepath.Join(a.dir, FileName(filepath.Base(orderID)))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("write invoice: %w", err)
	}
	return path, nil
}

// Path resolves a requested file name inside the archive. Any directory part
// is dropped, so callers cannot escape the archive directory.
func (a *Archive) Path(name string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, `\`, "/")))
	if base == "/" || base == "." || base == "" {
		return "", ErrNotFound
	}
	path := filepath.Join(a.dir, base)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}
