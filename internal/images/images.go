// Package images copies user-selected pictures into the managed data
// directory so catalog entries do not depend on files elsewhere on disk.
package images

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DirName is the subdirectory of the data directory holding images.
const DirName = "images"

// Import copies src to <dataDir>/images/<uuid v7><ext> and returns the new
// path. An empty src means no image and returns "".
func Import(dataDir, src string) (string, error) {
	if src == "" {
		return "", nil
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("image %s is a directory", src)
	}

	dir := filepath.Join(dataDir, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate image name: %w", err)
	}
	dst := filepath.Join(dir, id.String()+strings.ToLower(filepath.Ext(src)))

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("copy image: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close image: %w", err)
	}

	slog.Debug("images.Import - copied image", "src", src, "dst", dst, "bytes", info.Size())
	return dst, nil
}
