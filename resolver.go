package codeccaps

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Resolver picks codecs and color formats from a Registry.
//
// Selection is strictly first-in-enumeration-order as reported by the
// registry. There is no hardware/software preference and no sorting;
// callers that need a quality policy filter the registry themselves.
//
// A Resolver holds only immutable configuration and takes a fresh snapshot
// on every call, so it is safe for concurrent use.
type Resolver struct {
	registry Registry
	role     Role
	logger   zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRole sets which codecs SelectFirstCodec considers. Default RoleEncoder.
func WithRole(role Role) Option {
	return func(r *Resolver) { r.role = role }
}

// WithLogger sets the logger used for selection decisions.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver creates a resolver over registry.
func NewResolver(registry Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		role:     RoleEncoder,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With().Str("component", "codeccaps").Str("role", r.role.String()).Logger()
	return r
}

// Role returns the configured role.
func (r *Resolver) Role() Role { return r.role }

// SelectFirstCodec returns the first codec, in registry order, that matches
// the resolver's role and lists mime. It fails with ErrInvalidArgument for an
// empty MIME type and ErrNotFound when no codec matches. Registry errors are
// returned wrapped.
func (r *Resolver) SelectFirstCodec(ctx context.Context, mime string) (CodecDescriptor, error) {
	if strings.TrimSpace(mime) == "" {
		observe(opSelectCodec, outcomeInvalid)
		return CodecDescriptor{}, fmt.Errorf("%w: empty MIME type", ErrInvalidArgument)
	}

	codecs, err := r.registry.Codecs(ctx)
	if err != nil {
		observe(opSelectCodec, outcomeError)
		return CodecDescriptor{}, fmt.Errorf("enumerate codecs for %s: %w", mime, err)
	}

	for _, c := range codecs {
		if !r.role.Matches(c.Encoder) || !c.SupportsType(mime) {
			continue
		}
		r.logger.Debug().
			Str("mime", mime).
			Str("codec", c.Name).
			Int("candidates", len(codecs)).
			Msg("codec selected")
		observe(opSelectCodec, outcomeOK)
		return c, nil
	}

	r.logger.Debug().Str("mime", mime).Int("candidates", len(codecs)).Msg("no codec for MIME type")
	observe(opSelectCodec, outcomeNotFound)
	return CodecDescriptor{}, fmt.Errorf("%w: no %s for %s", ErrNotFound, r.role, mime)
}

// Selection is the outcome of Resolve.
type Selection struct {
	Codec        CodecDescriptor
	ColorFormat  ColorFormat
	ColorFormats map[string]ColorFormat
}

// Resolve runs the three queries for mime in sequence: the first codec,
// its first color format and its full color format list.
func (r *Resolver) Resolve(ctx context.Context, mime string) (Selection, error) {
	codec, err := r.SelectFirstCodec(ctx, mime)
	if err != nil {
		return Selection{}, err
	}
	f, err := SelectFirstColorFormat(codec, mime)
	if err != nil {
		return Selection{Codec: codec}, err
	}
	caps, err := codec.CapabilitiesFor(mime)
	if err != nil {
		return Selection{Codec: codec}, err
	}
	r.logger.Debug().
		Str("mime", mime).
		Str("codec", codec.Name).
		Str("color_format", f.Name()).
		Int("color_formats", len(caps.ColorFormats)).
		Msg("color format selected")
	return Selection{
		Codec:        codec,
		ColorFormat:  f,
		ColorFormats: ColorFormatList(caps),
	}, nil
}

// SelectFirstColorFormat returns the first valid color format codec reports
// for mime, in platform order. It fails with ErrInvalidArgument if codec does
// not list mime and ErrNotFound if the capability set has no valid color
// format.
func SelectFirstColorFormat(codec CodecDescriptor, mime string) (ColorFormat, error) {
	caps, err := codec.CapabilitiesFor(mime)
	if err != nil {
		observe(opSelectColorFormat, outcomeInvalid)
		return 0, err
	}
	for _, f := range caps.ColorFormats {
		if f.Valid() {
			observe(opSelectColorFormat, outcomeOK)
			return f, nil
		}
	}
	observe(opSelectColorFormat, outcomeNotFound)
	return 0, fmt.Errorf("%w: codec %q reports no color format for %s", ErrNotFound, codec.Name, mime)
}

// ColorFormatList maps the name of every color format in caps to its code.
// The result has one entry per distinct format and is empty only when caps
// is. For sets built by NewCapabilities that is one entry per reported
// format; a repeated code in a Capabilities literal collapses to one entry.
func ColorFormatList(caps Capabilities) map[string]ColorFormat {
	list := make(map[string]ColorFormat, len(caps.ColorFormats))
	for _, f := range caps.ColorFormats {
		list[f.Name()] = f
	}
	observe(opColorFormatList, outcomeOK)
	return list
}
