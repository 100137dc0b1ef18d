package codeccaps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Snapshot is the on-disk form of a codec registry dump.
//
//	device: pixel-7
//	codecs:
//	  - name: c2.exynos.h264.encoder
//	    encoder: true
//	    hardware: true
//	    types:
//	      - mime: video/avc
//	        colorFormats: [COLOR_FormatSurface, COLOR_FormatYUV420Flexible, 21]
type Snapshot struct {
	Device string          `yaml:"device,omitempty"`
	Codecs []SnapshotCodec `yaml:"codecs"`
}

// SnapshotCodec is one codec entry of a Snapshot.
type SnapshotCodec struct {
	Name     string         `yaml:"name"`
	Encoder  bool           `yaml:"encoder"`
	Vendor   string         `yaml:"vendor,omitempty"`
	Aliases  []string       `yaml:"aliases,omitempty"`
	Hardware bool           `yaml:"hardware,omitempty"`
	Software bool           `yaml:"software,omitempty"`
	Types    []SnapshotType `yaml:"types"`
}

// SnapshotType is the capability set of a SnapshotCodec for one MIME type.
type SnapshotType struct {
	Mime          string         `yaml:"mime"`
	ColorFormats  []ColorFormat  `yaml:"colorFormats,omitempty"`
	ProfileLevels []ProfileLevel `yaml:"profileLevels,omitempty"`
}

// UnmarshalYAML accepts either a color format name or a numeric code. Plain
// integers are kept as reported, zero and negative codes included, so a dump
// of a misbehaving codec survives a round trip.
func (c *ColorFormat) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: color format must be a scalar", value.Line)
	}
	if value.ShortTag() == "!!int" {
		v, err := strconv.ParseInt(value.Value, 0, 32)
		if err != nil {
			return fmt.Errorf("line %d: %w: color format %q out of range", value.Line, ErrInvalidArgument, value.Value)
		}
		*c = ColorFormat(v)
		return nil
	}
	f, err := ParseColorFormat(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = f
	return nil
}

// MarshalYAML writes known color formats by name and others by code.
func (c ColorFormat) MarshalYAML() (any, error) {
	if c.Known() {
		return c.Name(), nil
	}
	return int32(c), nil
}

// ParseSnapshot decodes a YAML registry dump.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	for i, c := range s.Codecs {
		if c.Name == "" {
			return nil, fmt.Errorf("parse snapshot: codec %d has no name", i)
		}
		for _, t := range c.Types {
			if t.Mime == "" {
				return nil, fmt.Errorf("parse snapshot: codec %q has a type with no mime", c.Name)
			}
		}
	}
	return &s, nil
}

// Descriptors converts the snapshot into codec descriptors, in file order.
func (s *Snapshot) Descriptors() []CodecDescriptor {
	out := make([]CodecDescriptor, 0, len(s.Codecs))
	for _, c := range s.Codecs {
		caps := make([]Capabilities, 0, len(c.Types))
		for _, t := range c.Types {
			caps = append(caps, NewCapabilities(t.Mime, t.ColorFormats, t.ProfileLevels...))
		}
		d := NewCodecDescriptor(c.Name, c.Encoder, caps...)
		d.Vendor = c.Vendor
		d.Aliases = c.Aliases
		d.HardwareAccelerated = c.Hardware
		d.SoftwareOnly = c.Software
		out = append(out, d)
	}
	return out
}

// NewSnapshot captures descriptors in snapshot form.
func NewSnapshot(device string, codecs []CodecDescriptor) *Snapshot {
	s := &Snapshot{Device: device, Codecs: make([]SnapshotCodec, 0, len(codecs))}
	for _, d := range codecs {
		c := SnapshotCodec{
			Name:     d.Name,
			Encoder:  d.Encoder,
			Vendor:   d.Vendor,
			Aliases:  d.Aliases,
			Hardware: d.HardwareAccelerated,
			Software: d.SoftwareOnly,
		}
		for i, mime := range d.types {
			c.Types = append(c.Types, SnapshotType{
				Mime:          mime,
				ColorFormats:  d.caps[i].ColorFormats,
				ProfileLevels: d.caps[i].ProfileLevels,
			})
		}
		s.Codecs = append(s.Codecs, c)
	}
	return s
}

// WriteTo encodes the snapshot as YAML.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	enc := yaml.NewEncoder(cw)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return cw.n, err
	}
	return cw.n, enc.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// SnapshotFileRegistry reads a YAML dump from disk on every query, so edits
// to the file show up on the next call.
type SnapshotFileRegistry struct {
	path   string
	logger zerolog.Logger
}

// NewSnapshotFileRegistry returns a registry backed by the dump at path.
func NewSnapshotFileRegistry(path string, logger zerolog.Logger) *SnapshotFileRegistry {
	return &SnapshotFileRegistry{
		path:   path,
		logger: logger.With().Str("backend", BackendSnapshot.String()).Str("path", path).Logger(),
	}
}

// Codecs loads and parses the dump.
func (r *SnapshotFileRegistry) Codecs(ctx context.Context) ([]CodecDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
		observeProbe(BackendSnapshot, err)
		return nil, err
	}
	s, err := ParseSnapshot(data)
	observeProbe(BackendSnapshot, err)
	if err != nil {
		r.logger.Warn().Err(err).Msg("snapshot unreadable")
		return nil, err
	}
	return s.Descriptors(), nil
}
