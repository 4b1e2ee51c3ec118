package providers

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/trixhub/conditions"
	"github.com/theoremus-urban-solutions/trixhub/config"
	"github.com/theoremus-urban-solutions/trixhub/provider"
)

const (
	imageDuration      = 30 * time.Second
	imageEmptyDuration = 10 * time.Second
	imageErrorDuration = 5 * time.Second
)

var imageExtensions = map[string]bool{
	".bmp": true, ".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

var imageMIMETypes = []string{"image/bmp", "image/jpeg", "image/png", "image/gif", "image/webp"}

// Image cycles through the pictures in a directory in shuffled order, showing each once before
// rescanning. It is never cached: every fetch advances the cycle.
type Image struct {
	provider.Conditional
	name    string
	dir     string
	files   []string
	next    int
	shuffle func([]string)
	now     func() time.Time
	logger  zerolog.Logger
}

// NewImage builds an image provider over cfg.Directory.
func NewImage(name string, cfg config.ProviderConfig, now func() time.Time, logger zerolog.Logger) (*Image, error) {
	if cfg.Directory == "" {
		return nil, fmt.Errorf("%s: directory is required: %w", name, provider.ErrConfig)
	}
	if now == nil {
		now = time.Now
	}
	return &Image{
		Conditional: provider.Conditional{Conditions: conditions.NewEvaluator(cfg.Conditions)},
		name:        name,
		dir:         cfg.Directory,
		shuffle: func(s []string) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
		now:    now,
		logger: logger.With().Str("component", "image").Str("provider", name).Logger(),
	}, nil
}

func (p *Image) Name() string                 { return p.name }
func (p *Image) CacheDuration() time.Duration { return 0 }

// SetShuffle replaces the ordering step; tests pass a no-op for deterministic order.
func (p *Image) SetShuffle(fn func([]string)) { p.shuffle = fn }

func (p *Image) refresh() {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		p.logger.Warn().Err(err).Str("dir", p.dir).Msg("failed to list images")
		p.files, p.next = nil, 0
		return
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	p.shuffle(files)
	p.files, p.next = files, 0
	p.logger.Debug().Int("count", len(files)).Msg("refreshed image list")
}

func (p *Image) Fetch(context.Context) (*provider.DisplayData, error) {
	now := p.now()
	if p.next >= len(p.files) {
		p.refresh()
	}
	if len(p.files) == 0 {
		return provider.ErrorData(now, provider.TypeImage, "No images found", nil, imageEmptyDuration), nil
	}

	name := p.files[p.next]
	p.next++
	data, err := os.ReadFile(filepath.Join(p.dir, name))
	var mt *mimetype.MIME
	if err == nil {
		if mt = mimetype.Detect(data); !acceptedImage(mt) {
			err = fmt.Errorf("%w: %s is %s", provider.ErrDecode, name, mt.String())
		}
	}
	if err != nil {
		p.logger.Warn().Err(err).Str("file", name).Msg("failed to load image")
		return provider.ErrorData(now, provider.TypeImage, "Failed to load image: "+name, err, imageErrorDuration), nil
	}

	return &provider.DisplayData{
		Timestamp: now,
		Content: provider.ImageContent{
			Name:     name,
			MIMEType: mt.String(),
			Data:     data,
			Number:   p.next,
			Total:    len(p.files),
		},
		Metadata: provider.Metadata{
			SuggestedDisplayDuration: imageDuration,
			Priority:                 "normal",
		},
	}, nil
}

func acceptedImage(mt *mimetype.MIME) bool {
	for _, t := range imageMIMETypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}
