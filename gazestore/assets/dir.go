// Package assets provides gazestore.AssetResolver implementations for stimulus images,
// backed by a local directory or an S3 bucket.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

// ErrInvalidAssetPath is returned when a relative asset path would escape the resolver's root.
var ErrInvalidAssetPath = errors.New("invalid asset path")

// DirResolver reads assets from a directory on the local file system.
type DirResolver struct {
	root string
}

// NewDirResolver creates a DirResolver rooted at dir. The directory must exist.
func NewDirResolver(dir string) (*DirResolver, error) {
	if dir == "" {
		return nil, errors.New("asset directory must not be empty")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("asset directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("asset directory %s is not a directory", dir)
	}

	return &DirResolver{root: dir}, nil
}

// Resolve reads root/relPath. Paths that are absolute or climb out of root are rejected.
func (r *DirResolver) Resolve(ctx context.Context, relPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := localPath(relPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(r.root, clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Join(gazestore.ErrAssetNotFound, err)
		}

		return nil, err
	}

	return data, nil
}

// localPath normalizes slashes from the catalog and checks the result stays below the root.
func localPath(relPath string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(relPath, `\`, "/"))
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidAssetPath)
	}

	local := filepath.FromSlash(trimmed)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetPath, relPath)
	}

	return filepath.Clean(local), nil
}

var _ gazestore.AssetResolver = (*DirResolver)(nil)
