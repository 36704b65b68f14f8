package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relline/pkg/cache"
	"github.com/matzehuels/relline/pkg/errors"
	"github.com/matzehuels/relline/pkg/observability"
	"github.com/matzehuels/relline/pkg/overlay"
	"github.com/matzehuels/relline/pkg/render/sink"
	"github.com/matzehuels/relline/pkg/scene"
)

// ArtifactTTL is how long rendered artifacts stay cached.
const ArtifactTTL = 7 * 24 * time.Hour

// Runner renders scenes with caching.
//
// The Runner holds no per-render state; multiple goroutines can use the
// same Runner with different scenes and options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil logger
// uses log.Default().
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// pass is the outcome of one settled draw pass.
type pass struct {
	frame      sink.Frame
	connectors []overlay.Connector
	stats      overlay.Stats
}

// Render validates the scene, runs one draw pass and renders every
// requested format. Formats found in the cache skip the pass unless
// opts.Refresh is set. A bound id that does not resolve fails the render
// with BOUND_NOT_FOUND; relations that cannot be drawn are only counted.
func (r *Runner) Render(ctx context.Context, s *scene.Scene, opts Options) (result *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}

	sc := *s
	if opts.Scroll != nil {
		sc.ScrollX, sc.ScrollY = opts.Scroll.X, opts.Scroll.Y
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Render().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Render().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	sceneHash, err := hashScene(&sc)
	if err != nil {
		return nil, err
	}

	result = &Result{Artifacts: make(map[string][]byte, len(opts.Formats))}
	var drawn *pass
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key := cache.ArtifactKey(sceneHash, artifactKeyOpts(format, opts))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				logger.Debugf("Using cached %s", format)
				result.Artifacts[format] = data
				result.Cached = append(result.Cached, format)
				continue
			}
		}

		if drawn == nil && needsPass(format) {
			p, err := r.drawPass(&sc, opts, logger)
			if err != nil {
				return nil, err
			}
			drawn = p
			result.Stats.Drawn = p.stats.Drawn
			result.Stats.Skipped = p.stats.Skipped
			result.Stats.Reasons = p.stats.Reasons
		}

		data, err := renderFormat(ctx, format, &sc, drawn, opts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		result.Artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, ArtifactTTL); err != nil {
			logger.Warnf("Could not cache %s: %v", format, err)
		}
	}

	result.Stats.RenderTime = time.Since(start)
	return result, nil
}

// drawPass runs the overlay over an in-memory page: Init, then the pending
// refresh is flushed instead of waiting out the settle delay.
func (r *Runner) drawPass(s *scene.Scene, opts Options, logger *log.Logger) (*pass, error) {
	page := scene.NewPage(*s)
	collector := sink.NewCollector()
	o := overlay.New(page, page, collector,
		overlay.WithLogger(logger),
		overlay.WithStrokeColor(opts.StrokeColor),
		overlay.WithDefaultColor(opts.DefaultColor),
	)
	defer o.Close()

	if err := o.SetBoundID(s.BoundID); err != nil {
		return nil, err
	}
	o.SetRelations(s.Relations)
	if err := o.Init(); err != nil {
		return nil, err
	}
	// Flush waits out a pass already running on the timer, so the pass has
	// happened exactly once either way.
	o.Flush()

	stats := o.LastStats()
	logger.Debugf("Draw pass: %d drawn, %d skipped", stats.Drawn, stats.Skipped)
	return &pass{
		frame:      sink.FrameOf(page, s.BoundID, opts.Elements),
		connectors: collector.Connectors(),
		stats:      stats,
	}, nil
}

func needsPass(format string) bool {
	return format != FormatDOT && format != FormatNodelink
}

func hashScene(s *scene.Scene) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("hash scene: %w", err)
	}
	return cache.Hash(data), nil
}

func artifactKeyOpts(format string, opts Options) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG:
		k.Elements = opts.Elements
		k.Labels = opts.Labels
		k.StrokeColor = opts.StrokeColor
		k.DefaultColor = opts.DefaultColor
		if format == FormatPNG {
			k.Scale = opts.Scale
		}
	case FormatJSON:
		k.StrokeColor = opts.StrokeColor
		k.DefaultColor = opts.DefaultColor
	case FormatDOT, FormatNodelink:
		k.Detailed = opts.Detailed
		k.DefaultColor = opts.DefaultColor
	}
	return k
}
