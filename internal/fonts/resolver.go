package fonts

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/image/font/sfnt"
)

// ErrNoHangul is returned when a font parses but cannot draw Korean.
var ErrNoHangul = errors.New("font has no hangul glyphs")

// Resolver walks its sources in order and stops at the first usable Korean font.
// When none is usable it hands out the built-in face, so Resolve never fails.
type Resolver struct {
	sources  []Source
	validate func([]byte) error
	logger   *zap.Logger
}

// NewResolver builds a resolver over sources, tried in the given order.
func NewResolver(logger *zap.Logger, sources ...Source) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{sources: sources, validate: Validate, logger: logger}
}

// Resolve returns the face for one export batch.
func (r *Resolver) Resolve(ctx context.Context) *Face {
	for _, src := range r.sources {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("font resolution interrupted", zap.Error(err))
			break
		}

		data, err := src.Load(ctx)
		if err == nil {
			err = r.validate(data)
		}
		if err != nil {
			r.logger.Warn("font source unavailable, trying next",
				zap.String("origin", string(src.Origin())),
				zap.Error(err))
			continue
		}

		r.logger.Info("korean font resolved", zap.String("origin", string(src.Origin())), zap.Int("bytes", len(data)))
		return &Face{Family: KoreanFamily, Data: data, Origin: src.Origin()}
	}

	r.logger.Warn("no korean font available, using built-in face with transliteration")
	return Builtin()
}

// Validate checks that data is an sfnt font able to draw Hangul.
func Validate(data []byte) error {
	if len(data) == 0 {
		return errors.New("font data is empty")
	}

	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}

	var buf sfnt.Buffer
	idx, err := f.GlyphIndex(&buf, '한')
	if err != nil {
		return fmt.Errorf("lookup hangul glyph: %w", err)
	}
	if idx == 0 {
		return ErrNoHangul
	}
	return nil
}
