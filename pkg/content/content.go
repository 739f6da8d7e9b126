package content

import (
	"context"
	"fmt"

	"github.com/blendwall/blendwall/pkg/config"
	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/blendwall/blendwall/pkg/render"
)

const (
	KindImage    = "image"
	KindSequence = "sequence"
	KindTestCard = "testcard"
	KindNone     = "none"
)

// Open makes the source the config asks for, fetching remote content first.
// Kind none gives a nil source.
func Open(ctx context.Context, conf config.Content, log *logger.Logger) (render.Source, error) {
	log = log.Module("content")

	path := conf.Path
	if conf.URL != "" && conf.Kind != KindTestCard && conf.Kind != KindNone {
		p, err := Fetch(ctx, conf.URL, conf.CacheDir, log)
		if err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}
		path = p
	}

	switch conf.Kind {
	case KindImage:
		img, err := OpenImage(path, log)
		if err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}
		return img, nil
	case KindSequence:
		seq, err := NewSequence(path, conf.Fps, conf.Once, log)
		if err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}
		return seq, nil
	case KindTestCard:
		w, h := conf.Width, conf.Height
		if w <= 0 || h <= 0 {
			w, h = 1920, 1080
		}
		return NewImage(TestCard(w, h, 64, conf.Label)), nil
	case KindNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("content: unknown kind %q", conf.Kind)
	}
}
