package codeccaps

import (
	"fmt"
	"slices"
	"strings"
)

// Role selects which side of a codec the resolver looks at.
type Role uint8

const (
	RoleEncoder Role = iota // Codecs that accept raw frames
	RoleDecoder             // Codecs that produce raw frames
	RoleAny                 // Both, in enumeration order
)

func (r Role) String() string {
	switch r {
	case RoleEncoder:
		return "encoder"
	case RoleDecoder:
		return "decoder"
	case RoleAny:
		return "any"
	default:
		return "unknown"
	}
}

// ParseRole parses the String form of a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "encoder":
		return RoleEncoder, nil
	case "decoder":
		return RoleDecoder, nil
	case "any":
		return RoleAny, nil
	default:
		return 0, fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, s)
	}
}

// Matches reports whether a codec with the given direction satisfies r.
func (r Role) Matches(encoder bool) bool {
	switch r {
	case RoleEncoder:
		return encoder
	case RoleDecoder:
		return !encoder
	default:
		return true
	}
}

// ProfileLevel is a profile/level pair in platform codes.
type ProfileLevel struct {
	Profile int32 `yaml:"profile"`
	Level   int32 `yaml:"level"`
}

// Capabilities is a capability set scoped to one MIME type. Build it with
// NewCapabilities; a literal may carry repeated color formats, which
// ColorFormatList collapses.
type Capabilities struct {
	MimeType      string
	ColorFormats  []ColorFormat // Platform order, no duplicates when built by NewCapabilities
	ProfileLevels []ProfileLevel
}

// NewCapabilities builds a capability set. Repeated color formats keep their
// first position so each reported format appears exactly once.
func NewCapabilities(mime string, formats []ColorFormat, profiles ...ProfileLevel) Capabilities {
	caps := Capabilities{
		MimeType:      mime,
		ColorFormats:  make([]ColorFormat, 0, len(formats)),
		ProfileLevels: slices.Clone(profiles),
	}
	seen := make(map[ColorFormat]struct{}, len(formats))
	for _, f := range formats {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		caps.ColorFormats = append(caps.ColorFormats, f)
	}
	return caps
}

// SupportsColorFormat reports whether f is in the set.
func (c Capabilities) SupportsColorFormat(f ColorFormat) bool {
	return slices.Contains(c.ColorFormats, f)
}

// CodecDescriptor describes one platform codec. Descriptors are values
// copied out of a registry snapshot; nothing here is shared with the
// registry.
type CodecDescriptor struct {
	Name    string
	Encoder bool

	// Informational; never used to rank codecs.
	Vendor              string
	Aliases             []string
	HardwareAccelerated bool
	SoftwareOnly        bool

	types []string
	caps  []Capabilities // parallel to types
}

// NewCodecDescriptor builds a descriptor from its per-MIME capability sets,
// in the order the platform reports them.
func NewCodecDescriptor(name string, encoder bool, caps ...Capabilities) CodecDescriptor {
	d := CodecDescriptor{Name: name, Encoder: encoder}
	for _, c := range caps {
		if d.index(c.MimeType) >= 0 {
			continue
		}
		d.types = append(d.types, c.MimeType)
		d.caps = append(d.caps, c)
	}
	return d
}

// clone copies the exported slices; types and caps are never mutated after
// construction and stay shared.
func (d CodecDescriptor) clone() CodecDescriptor {
	d.Aliases = slices.Clone(d.Aliases)
	return d
}

// Types returns the supported MIME types in platform order.
func (d CodecDescriptor) Types() []string {
	return slices.Clone(d.types)
}

// IsZero reports whether d is the zero descriptor.
func (d CodecDescriptor) IsZero() bool {
	return d.Name == "" && len(d.types) == 0
}

// SupportsType reports whether the codec lists mime (case-insensitive).
func (d CodecDescriptor) SupportsType(mime string) bool {
	return d.index(mime) >= 0
}

// CapabilitiesFor returns the capability set for mime. It fails with
// ErrInvalidArgument if the codec does not list mime.
func (d CodecDescriptor) CapabilitiesFor(mime string) (Capabilities, error) {
	i := d.index(mime)
	if i < 0 {
		return Capabilities{}, fmt.Errorf("%w: codec %q does not support %q", ErrInvalidArgument, d.Name, mime)
	}
	c := d.caps[i]
	c.ColorFormats = slices.Clone(c.ColorFormats)
	c.ProfileLevels = slices.Clone(c.ProfileLevels)
	return c, nil
}

func (d CodecDescriptor) index(mime string) int {
	for i, t := range d.types {
		if strings.EqualFold(t, mime) {
			return i
		}
	}
	return -1
}

func (d CodecDescriptor) String() string {
	kind := "decoder"
	if d.Encoder {
		kind = "encoder"
	}
	return fmt.Sprintf("%s (%s: %s)", d.Name, kind, strings.Join(d.types, ", "))
}
