package content

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blendwall/blendwall/pkg/logger"
)

const zipExt = ".zip"

// Unzip extracts a zip archive (a packed image sequence) into dest
// and returns the extracted files.
func Unzip(src, dest string, log *logger.Logger) (files []string, err error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	root := filepath.Clean(dest) + string(os.PathSeparator)
	for _, f := range r.File {
		path := filepath.Join(dest, f.Name)
		// zip slip
		if !strings.HasPrefix(path, root) {
			log.Warn().Str("path", path).Msg("illegal path in archive")
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return files, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return files, err
		}
		if err := extract(f, path); err != nil {
			log.Error().Err(err).Str("file", f.Name).Msg("couldn't extract")
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

func extract(f *zip.File, path string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
