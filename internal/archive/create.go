package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2epub/internal/fileutil"
)

// TreeDirs lists the scratch directories archived after mimetype, in order.
var TreeDirs = []string{"META-INF", "OEBPS"}

// Create archives buildDir into dest. The archive is written to a temporary
// file in dest's directory and renamed into place once complete, so on
// failure dest is either absent or still holds the previous archive.
func Create(buildDir, dest string, logger *slog.Logger) (entries []Entry, err error) {
	if err := os.MkdirAll(filepath.Dir(dest), fileutil.DirPerm); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temporary archive: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	w := NewWriter(tmp, buildDir, logger)
	if err := w.WriteMimetype(filepath.Join(buildDir, MimetypeName)); err != nil {
		return nil, err
	}
	for _, dir := range TreeDirs {
		if err := w.AddTree(filepath.Join(buildDir, dir)); err != nil {
			return nil, fmt.Errorf("archiving %s: %w", dir, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finishing archive: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	if err := os.Chmod(tmpName, fileutil.FilePerm); err != nil {
		return nil, err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return nil, fmt.Errorf("moving archive into place: %w", err)
	}
	return w.Entries(), nil
}
