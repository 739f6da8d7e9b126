package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/cavaliercoder/grab"
)

// Downloader fetches remote content into a local cache directory.
type Downloader struct {
	client      *grab.Client
	concurrency int
	log         *logger.Logger
}

func NewDownloader(log *logger.Logger) *Downloader {
	client := grab.NewClient()
	client.UserAgent = "blendwall"
	return &Downloader{client: client, concurrency: 4, log: log}
}

// Request downloads the urls into dest and returns the local files.
// Files already complete in dest are not downloaded again.
// Zip archives are unpacked into a directory named after the archive,
// that directory is returned instead of the archive.
func (d *Downloader) Request(ctx context.Context, dest string, urls ...string) (files []string, err error) {
	if err = os.MkdirAll(dest, 0o755); err != nil {
		return nil, err
	}

	reqs := make([]*grab.Request, 0, len(urls))
	for _, url := range urls {
		req, err := grab.NewRequest(dest, url)
		if err != nil {
			d.log.Error().Err(err).Str("url", url).Msg("couldn't make request")
			continue
		}
		reqs = append(reqs, req.WithContext(ctx))
	}

	var errs []error
	for resp := range d.client.DoBatch(d.concurrency, reqs...) {
		if err := resp.Err(); err != nil {
			d.log.Error().Err(err).Str("url", resp.Request.URL().String()).Msg("download failed")
			errs = append(errs, err)
			continue
		}
		status := "cached"
		if resp.HTTPResponse != nil {
			status = resp.HTTPResponse.Status
		}
		d.log.Info().Str("status", status).Str("file", resp.Filename).Msg("downloaded")

		file := resp.Filename
		if strings.EqualFold(filepath.Ext(file), zipExt) {
			dir := strings.TrimSuffix(file, filepath.Ext(file))
			if _, err := Unzip(file, dir, d.log); err != nil {
				errs = append(errs, fmt.Errorf("unpack %v: %w", file, err))
				continue
			}
			file = dir
		}
		files = append(files, file)
	}
	return files, errors.Join(errs...)
}

// Fetch downloads one url into dir and returns the local path.
func Fetch(ctx context.Context, url, dir string, log *logger.Logger) (string, error) {
	files, err := NewDownloader(log).Request(ctx, dir, url)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("fetch %v: nothing downloaded", url)
	}
	return files[0], nil
}
