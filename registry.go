package codeccaps

import (
	"context"
	"sync/atomic"
)

// Registry is the platform codec registry the resolver consumes. Codecs
// returns a fresh snapshot in the platform's enumeration order; callers own
// the returned slice.
type Registry interface {
	Codecs(ctx context.Context) ([]CodecDescriptor, error)
}

// RegistryFunc adapts a function to the Registry interface.
type RegistryFunc func(ctx context.Context) ([]CodecDescriptor, error)

// Codecs calls f(ctx).
func (f RegistryFunc) Codecs(ctx context.Context) ([]CodecDescriptor, error) { return f(ctx) }

// StaticRegistry serves a fixed list of codecs, e.g. a captured device dump.
type StaticRegistry struct {
	codecs []CodecDescriptor
}

// NewStaticRegistry returns a registry that always reports codecs, in the
// given order.
func NewStaticRegistry(codecs ...CodecDescriptor) *StaticRegistry {
	return &StaticRegistry{codecs: cloneDescriptors(codecs)}
}

// Codecs returns a copy of the stored list; callers may modify it, Aliases
// included, without affecting later calls.
func (r *StaticRegistry) Codecs(ctx context.Context) ([]CodecDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneDescriptors(r.codecs), nil
}

func cloneDescriptors(codecs []CodecDescriptor) []CodecDescriptor {
	out := make([]CodecDescriptor, len(codecs))
	for i, c := range codecs {
		out[i] = c.clone()
	}
	return out
}

// Backend identifies a registry implementation.
type Backend uint8

const (
	BackendStatic   Backend = iota // In-memory list
	BackendSnapshot                // YAML device dump, re-read per query
	BackendFFmpeg                  // ffmpeg binary probing
	BackendLibav                   // libavcodec via purego
	backendCount
)

// backendMeta contains static metadata about a backend.
type backendMeta struct {
	Name       string
	Native     bool // Needs a shared library at runtime
	External   bool // Needs an executable at runtime
	Configured bool // Needs a path in Config
}

// Static metadata table - indexed by Backend.
var backendInfo = [backendCount]backendMeta{
	BackendStatic:   {"static", false, false, false},
	BackendSnapshot: {"snapshot", false, false, true},
	BackendFFmpeg:   {"ffmpeg", false, true, false},
	BackendLibav:    {"libav", true, false, false},
}

// Runtime availability - set once a backend has loaded successfully.
var backendAvailable [backendCount]atomic.Bool

func init() {
	setBackendAvailable(BackendStatic)
	setBackendAvailable(BackendSnapshot)
}

// String returns the backend name.
func (b Backend) String() string {
	if b >= backendCount {
		return "unknown"
	}
	return backendInfo[b].Name
}

// Native returns true if the backend loads a shared library.
func (b Backend) Native() bool {
	if b >= backendCount {
		return false
	}
	return backendInfo[b].Native
}

// External returns true if the backend runs an external executable.
func (b Backend) External() bool {
	if b >= backendCount {
		return false
	}
	return backendInfo[b].External
}

// Available returns true if the backend has been seen working at runtime.
func (b Backend) Available() bool {
	if b >= backendCount {
		return false
	}
	return backendAvailable[b].Load()
}

// ParseBackend parses the String form of a Backend.
func ParseBackend(s string) (Backend, bool) {
	for b := Backend(0); b < backendCount; b++ {
		if backendInfo[b].Name == s {
			return b, true
		}
	}
	return 0, false
}

func setBackendAvailable(b Backend) {
	if b < backendCount {
		backendAvailable[b].Store(true)
	}
}
