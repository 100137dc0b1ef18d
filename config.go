package codeccaps

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding file configuration.
const (
	EnvBackend      = "CODECCAPS_BACKEND"
	EnvSnapshot     = "CODECCAPS_SNAPSHOT"
	EnvFFmpeg       = "CODECCAPS_FFMPEG"
	EnvRole         = "CODECCAPS_ROLE"
	EnvLogLevel     = "CODECCAPS_LOG_LEVEL"
	EnvLibPath      = "LIBAV_LIB_PATH"
	EnvProbeTimeout = "CODECCAPS_PROBE_TIMEOUT"
)

// Config selects and configures the registry backend.
type Config struct {
	Backend  string `yaml:"backend"`            // static, snapshot, ffmpeg, libav
	Role     string `yaml:"role,omitempty"`     // encoder (default), decoder, any
	LogLevel string `yaml:"logLevel,omitempty"` // zerolog level name

	Snapshot SnapshotConfig `yaml:"snapshot,omitempty"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg,omitempty"`
	Libav    LibavConfig    `yaml:"libav,omitempty"`
}

// SnapshotConfig configures BackendSnapshot.
type SnapshotConfig struct {
	Path string `yaml:"path"`
}

// FFmpegConfig configures BackendFFmpeg.
type FFmpegConfig struct {
	Binary       string        `yaml:"binary,omitempty"`
	Concurrency  int           `yaml:"concurrency,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	SkipDecoders bool          `yaml:"skipDecoders,omitempty"`
}

// LibavConfig configures BackendLibav.
type LibavConfig struct {
	LibDir string `yaml:"libDir,omitempty"`
}

// DefaultConfig probes the ffmpeg binary on PATH for encoders.
func DefaultConfig() Config {
	return Config{
		Backend:  BackendFFmpeg.String(),
		Role:     RoleEncoder.String(),
		LogLevel: zerolog.InfoLevel.String(),
		FFmpeg: FFmpegConfig{
			Binary:      defaultFFmpegBinary,
			Concurrency: defaultFFmpegConcurrency,
			Timeout:     defaultFFmpegTimeout,
		},
	}
}

// LoadConfig reads a YAML config over DefaultConfig and applies environment
// overrides, then overrides in order, then validates the result. An empty
// path loads defaults and environment only.
func LoadConfig(path string, overrides ...func(*Config)) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvBackend); ok && v != "" {
		c.Backend = v
	}
	if v, ok := os.LookupEnv(EnvSnapshot); ok && v != "" {
		c.Snapshot.Path = v
	}
	if v, ok := os.LookupEnv(EnvFFmpeg); ok && v != "" {
		c.FFmpeg.Binary = v
	}
	if v, ok := os.LookupEnv(EnvRole); ok && v != "" {
		c.Role = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvLibPath); ok && v != "" {
		c.Libav.LibDir = v
	}
	if v, ok := os.LookupEnv(EnvProbeTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			secs, serr := strconv.Atoi(v)
			if serr != nil {
				return fmt.Errorf("%s: %w", EnvProbeTimeout, err)
			}
			d = time.Duration(secs) * time.Second
		}
		c.FFmpeg.Timeout = d
	}
	return nil
}

// Validate reports every problem in c at once.
func (c Config) Validate() error {
	var errs []error
	b, ok := ParseBackend(strings.ToLower(c.Backend))
	if !ok {
		errs = append(errs, fmt.Errorf("%w: unknown backend %q", ErrInvalidArgument, c.Backend))
	}
	if ok && backendInfo[b].Configured && c.Snapshot.Path == "" {
		errs = append(errs, fmt.Errorf("%w: backend %s needs snapshot.path", ErrInvalidArgument, b))
	}
	if _, err := ParseRole(c.Role); err != nil {
		errs = append(errs, err)
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("%w: log level: %w", ErrInvalidArgument, err))
		}
	}
	if c.FFmpeg.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("%w: ffmpeg.concurrency must not be negative", ErrInvalidArgument))
	}
	if c.FFmpeg.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: ffmpeg.timeout must not be negative", ErrInvalidArgument))
	}
	return errors.Join(errs...)
}

// Logger returns logger at the configured level.
func (c Config) Logger(logger zerolog.Logger) zerolog.Logger {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil && c.LogLevel != "" {
		return logger.Level(lvl)
	}
	return logger
}

// NewRegistry builds the registry described by cfg. BackendStatic yields an
// empty registry; callers with an in-memory list use NewStaticRegistry.
func NewRegistry(cfg Config, logger zerolog.Logger) (Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, _ := ParseBackend(strings.ToLower(cfg.Backend))
	switch b {
	case BackendSnapshot:
		return NewSnapshotFileRegistry(cfg.Snapshot.Path, logger), nil
	case BackendFFmpeg:
		opts := []FFmpegOption{
			WithFFmpegConcurrency(cfg.FFmpeg.Concurrency),
			WithFFmpegTimeout(cfg.FFmpeg.Timeout),
			WithFFmpegLogger(logger),
		}
		if cfg.FFmpeg.SkipDecoders {
			opts = append(opts, WithoutDecoders())
		}
		return NewFFmpegRegistry(cfg.FFmpeg.Binary, opts...), nil
	case BackendLibav:
		return NewLibavRegistry(cfg.Libav.LibDir, logger), nil
	default:
		return NewStaticRegistry(), nil
	}
}

// NewResolverFromConfig builds the registry and a resolver with the
// configured role and log level.
func NewResolverFromConfig(cfg Config, logger zerolog.Logger) (*Resolver, error) {
	logger = cfg.Logger(logger)
	reg, err := NewRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}
	role, _ := ParseRole(cfg.Role)
	return NewResolver(reg, WithRole(role), WithLogger(logger)), nil
}
