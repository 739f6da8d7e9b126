package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/blendwall/blendwall/pkg/render"
)

var ErrNoFrames = errors.New("no image files")

var pictureExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// Frames lists the picture files of a directory in name order.
func Frames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if pictureExt[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%v: %w", dir, ErrNoFrames)
	}
	sort.Strings(files)
	return files, nil
}

// Sequence plays a list of pictures as video at a fixed rate.
type Sequence struct {
	*Video

	files []string
	fps   float64
	once  bool
	log   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSequence makes a sequence out of the pictures in dir.
// With once it stops on the last picture, otherwise it loops.
func NewSequence(dir string, fps float64, once bool, log *logger.Logger) (*Sequence, error) {
	files, err := Frames(dir)
	if err != nil {
		return nil, err
	}
	if fps <= 0 {
		fps = 30
	}
	return &Sequence{Video: NewVideo(), files: files, fps: fps, once: once, log: log}, nil
}

func (s *Sequence) Len() int { return len(s.files) }

// Start attaches the sink and starts the playback goroutine.
func (s *Sequence) Start(sink render.Sink) error {
	if err := s.Video.Start(sink); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel, s.done = cancel, make(chan struct{})
	go s.play(ctx, s.done)
	return nil
}

func (s *Sequence) play(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / s.fps))
	defer ticker.Stop()

	s.log.Info().Int("frames", len(s.files)).Float64("fps", s.fps).Bool("once", s.once).Msg("sequence started")
	for i := 0; ; {
		img, err := LoadImage(s.files[i])
		if err != nil {
			s.log.Warn().Err(err).Msg("skipped sequence frame")
		} else if err = s.Push(img); errors.Is(err, ErrClosed) {
			return
		}

		i++
		if i == len(s.files) {
			if s.once {
				s.log.Info().Msg("sequence finished")
				return
			}
			i = 0
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// Close stops the playback and waits for it.
func (s *Sequence) Close() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
	return s.Video.Close()
}
