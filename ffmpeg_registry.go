package codeccaps

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFmpegConcurrency = 4
	defaultFFmpegTimeout     = 10 * time.Second
)

// FFmpeg codec ids and the platform MIME type they implement. Codecs whose
// id is not listed are not reported.
var ffmpegCodecMimes = map[string]string{
	"h264":       MimeAVC,
	"hevc":       MimeHEVC,
	"vp8":        MimeVP8,
	"vp9":        MimeVP9,
	"av1":        MimeAV1,
	"mpeg4":      MimeMPEG4,
	"h263":       MimeH263,
	"mpeg2video": MimeMPEG2,
	"opus":       MimeOpus,
	"aac":        MimeAAC,
	"pcm_alaw":   MimeG711A,
	"pcm_mulaw":  MimeG711U,
	"flac":       MimeFLAC,
}

// Name suffixes of FFmpeg wrappers around hardware codecs.
var ffmpegHardwareSuffixes = []string{
	"_vaapi", "_nvenc", "_cuvid", "_qsv", "_videotoolbox", "_v4l2m2m",
	"_mediacodec", "_amf", "_vulkan", "_d3d12va", "_mf", "_rkmpp",
}

// commandRunner runs an external command and returns its stdout.
type commandRunner func(ctx context.Context, bin string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, bin string, args ...string) ([]byte, error) {
	// #nosec G204 -- bin comes from configuration
	return exec.CommandContext(ctx, bin, args...).Output()
}

// FFmpegRegistry enumerates the codecs compiled into an ffmpeg binary.
// Encoders are reported before decoders, each group in ffmpeg's listing
// order. Pixel formats are read from "ffmpeg -h encoder=NAME".
type FFmpegRegistry struct {
	bin          string
	concurrency  int
	timeout      time.Duration
	skipDecoders bool
	run          commandRunner
	logger       zerolog.Logger
}

// FFmpegOption configures an FFmpegRegistry.
type FFmpegOption func(*FFmpegRegistry)

// WithFFmpegConcurrency bounds the number of concurrent per-codec probes.
func WithFFmpegConcurrency(n int) FFmpegOption {
	return func(r *FFmpegRegistry) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithFFmpegTimeout bounds a whole snapshot.
func WithFFmpegTimeout(d time.Duration) FFmpegOption {
	return func(r *FFmpegRegistry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithoutDecoders restricts the snapshot to encoders.
func WithoutDecoders() FFmpegOption {
	return func(r *FFmpegRegistry) { r.skipDecoders = true }
}

// WithFFmpegLogger sets the logger for probe failures.
func WithFFmpegLogger(logger zerolog.Logger) FFmpegOption {
	return func(r *FFmpegRegistry) { r.logger = logger }
}

func withCommandRunner(run commandRunner) FFmpegOption {
	return func(r *FFmpegRegistry) { r.run = run }
}

// NewFFmpegRegistry creates a registry probing bin (default "ffmpeg" on PATH).
func NewFFmpegRegistry(bin string, opts ...FFmpegOption) *FFmpegRegistry {
	if bin == "" {
		bin = defaultFFmpegBinary
	}
	r := &FFmpegRegistry{
		bin:         bin,
		concurrency: defaultFFmpegConcurrency,
		timeout:     defaultFFmpegTimeout,
		run:         execRunner,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With().Str("backend", BackendFFmpeg.String()).Str("bin", bin).Logger()
	return r
}

// ffmpegCodec is one line of "ffmpeg -encoders" / "-decoders".
type ffmpegCodec struct {
	name    string
	codecID string
	video   bool
	audio   bool
	encoder bool
}

// Codecs probes the binary.
func (r *FFmpegRegistry) Codecs(ctx context.Context) ([]CodecDescriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	listed, err := r.list(ctx, true)
	if err == nil && !r.skipDecoders {
		var decoders []ffmpegCodec
		decoders, err = r.list(ctx, false)
		listed = append(listed, decoders...)
	}
	observeProbe(BackendFFmpeg, err)
	if err != nil {
		return nil, err
	}
	setBackendAvailable(BackendFFmpeg)

	out := make([]CodecDescriptor, len(listed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, c := range listed {
		g.Go(func() error {
			var formats []ColorFormat
			if c.video {
				pixFmts, err := r.pixelFormats(gctx, c)
				if err != nil {
					return err
				}
				formats = r.colorFormats(c, pixFmts)
			}
			mime := ffmpegCodecMimes[c.codecID]
			d := NewCodecDescriptor(c.name, c.encoder, NewCapabilities(mime, formats))
			d.Vendor = "ffmpeg"
			d.HardwareAccelerated = isFFmpegHardware(c.name)
			d.SoftwareOnly = !d.HardwareAccelerated
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *FFmpegRegistry) list(ctx context.Context, encoders bool) ([]ffmpegCodec, error) {
	flag := "-decoders"
	if encoders {
		flag = "-encoders"
	}
	out, err := r.run(ctx, r.bin, "-hide_banner", flag)
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
		return nil, fmt.Errorf("ffmpeg %s: %w", flag, err)
	}
	var codecs []ffmpegCodec
	for _, c := range parseFFmpegCodecList(out, encoders) {
		if _, ok := ffmpegCodecMimes[c.codecID]; !ok || !(c.video || c.audio) {
			continue
		}
		codecs = append(codecs, c)
	}
	return codecs, nil
}

func (r *FFmpegRegistry) pixelFormats(ctx context.Context, c ffmpegCodec) ([]string, error) {
	kind := "decoder"
	if c.encoder {
		kind = "encoder"
	}
	out, err := r.run(ctx, r.bin, "-hide_banner", "-h", kind+"="+c.name)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg -h %s=%s: %w", kind, c.name, err)
	}
	return parseFFmpegPixelFormats(out), nil
}

func (r *FFmpegRegistry) colorFormats(c ffmpegCodec, pixFmts []string) []ColorFormat {
	formats := make([]ColorFormat, 0, len(pixFmts))
	for _, p := range pixFmts {
		f, ok := ColorFormatFromPixFmt(p)
		if !ok {
			r.logger.Debug().Str("codec", c.name).Str("pix_fmt", p).Msg("pixel format has no color format")
			continue
		}
		formats = append(formats, f)
	}
	return formats
}

// parseFFmpegCodecList parses the table printed by -encoders/-decoders:
//
//	V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC (codec h264)
//
// Entries before the "------" separator are the legend.
func parseFFmpegCodecList(out []byte, encoders bool) []ffmpegCodec {
	var codecs []ffmpegCodec
	inTable := false
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !inTable {
			inTable = strings.HasPrefix(line, "------")
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields[0]) < 6 {
			continue
		}
		c := ffmpegCodec{
			name:    fields[1],
			codecID: fields[1],
			video:   fields[0][0] == 'V',
			audio:   fields[0][0] == 'A',
			encoder: encoders,
		}
		if i := strings.LastIndex(line, "(codec "); i >= 0 && strings.HasSuffix(line, ")") {
			c.codecID = strings.TrimSpace(line[i+len("(codec ") : len(line)-1])
		}
		codecs = append(codecs, c)
	}
	return codecs
}

// parseFFmpegPixelFormats extracts the "Supported pixel formats:" list from
// "ffmpeg -h encoder=NAME" output, in the order printed.
func parseFFmpegPixelFormats(out []byte) []string {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if rest, ok := strings.CutPrefix(line, "Supported pixel formats:"); ok {
			return strings.Fields(rest)
		}
	}
	return nil
}

func isFFmpegHardware(name string) bool {
	for _, s := range ffmpegHardwareSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
