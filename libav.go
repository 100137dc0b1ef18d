package codeccaps

import (
	"github.com/rs/zerolog"
)

// LibavRegistry enumerates the codecs of the libavcodec shared library
// installed on the host, without cgo. Entries are reported in
// av_codec_iterate order, encoders and decoders interleaved as libavcodec
// registers them.
type LibavRegistry struct {
	libDir string
	logger zerolog.Logger
}

// NewLibavRegistry creates a registry that loads libavcodec and libavutil.
// libDir, when set, is searched before LIBAV_LIB_PATH, STREAM_SDK_LIB_PATH
// and the system locations.
func NewLibavRegistry(libDir string, logger zerolog.Logger) *LibavRegistry {
	return &LibavRegistry{
		libDir: libDir,
		logger: logger.With().Str("backend", BackendLibav.String()).Logger(),
	}
}

// AV_CODEC_CAP_HARDWARE from libavcodec/codec.h.
const avCodecCapHardware = 1 << 18

// AVMediaType values.
const (
	avMediaTypeVideo = 0
	avMediaTypeAudio = 1
)

// AV_CODEC_CONFIG_PIX_FORMAT from libavcodec/avcodec.h.
const avCodecConfigPixFormat = 0

// hasSupportedConfig reports whether a libavcodec version (as returned by
// avcodec_version) exports avcodec_get_supported_config. AVCodec.pix_fmts
// is deprecated from the same release.
func hasSupportedConfig(version uint32) bool {
	major, minor := version>>16, (version>>8)&0xFF
	return major > 61 || major == 61 && minor >= 13
}
