package codeccaps

import "strings"

// Platform MIME types as advertised by codec registries (Android MediaFormat
// spelling). Matching against registry entries is case-insensitive.
const (
	MimeAVC   = "video/avc"
	MimeHEVC  = "video/hevc"
	MimeVP8   = "video/x-vnd.on2.vp8"
	MimeVP9   = "video/x-vnd.on2.vp9"
	MimeAV1   = "video/av01"
	MimeMPEG4 = "video/mp4v-es"
	MimeH263  = "video/3gpp"
	MimeMPEG2 = "video/mpeg2"

	MimeOpus  = "audio/opus"
	MimeAAC   = "audio/mp4a-latm"
	MimeG711A = "audio/g711-alaw"
	MimeG711U = "audio/g711-mlaw"
	MimeFLAC  = "audio/flac"
)

// VideoCodec identifies the video codec type.
type VideoCodec int

const (
	VideoCodecUnknown VideoCodec = iota
	VideoCodecVP8
	VideoCodecVP9
	VideoCodecH264
	VideoCodecH265
	VideoCodecAV1
)

func (c VideoCodec) String() string {
	switch c {
	case VideoCodecVP8:
		return "VP8"
	case VideoCodecVP9:
		return "VP9"
	case VideoCodecH264:
		return "H264"
	case VideoCodecH265:
		return "H265"
	case VideoCodecAV1:
		return "AV1"
	default:
		return "Unknown"
	}
}

// MimeType returns the RTP/WebRTC MIME type for this codec.
func (c VideoCodec) MimeType() string {
	switch c {
	case VideoCodecVP8:
		return "video/VP8"
	case VideoCodecVP9:
		return "video/VP9"
	case VideoCodecH264:
		return "video/H264"
	case VideoCodecH265:
		return "video/H265"
	case VideoCodecAV1:
		return "video/AV1"
	default:
		return ""
	}
}

// PlatformMime returns the MIME type a codec registry uses for this codec.
func (c VideoCodec) PlatformMime() string {
	switch c {
	case VideoCodecVP8:
		return MimeVP8
	case VideoCodecVP9:
		return MimeVP9
	case VideoCodecH264:
		return MimeAVC
	case VideoCodecH265:
		return MimeHEVC
	case VideoCodecAV1:
		return MimeAV1
	default:
		return ""
	}
}

// ClockRate returns the RTP clock rate for this codec.
func (c VideoCodec) ClockRate() uint32 {
	// All video codecs use 90kHz clock
	return 90000
}

// DefaultPayloadType returns a typical payload type for this codec.
// Note: Actual payload type is negotiated via SDP.
func (c VideoCodec) DefaultPayloadType() uint8 {
	switch c {
	case VideoCodecVP8:
		return 96
	case VideoCodecVP9:
		return 98
	case VideoCodecH264:
		return 102
	case VideoCodecH265:
		return 104
	case VideoCodecAV1:
		return 35
	default:
		return 96
	}
}

// AudioCodec identifies the audio codec type.
type AudioCodec int

const (
	AudioCodecUnknown AudioCodec = iota
	AudioCodecOpus
	AudioCodecG711A // A-law (PCMA)
	AudioCodecG711U // μ-law (PCMU)
	AudioCodecAAC
)

func (c AudioCodec) String() string {
	switch c {
	case AudioCodecOpus:
		return "Opus"
	case AudioCodecG711A:
		return "PCMA"
	case AudioCodecG711U:
		return "PCMU"
	case AudioCodecAAC:
		return "AAC"
	default:
		return "Unknown"
	}
}

// MimeType returns the RTP/WebRTC MIME type for this codec.
func (c AudioCodec) MimeType() string {
	switch c {
	case AudioCodecOpus:
		return "audio/opus"
	case AudioCodecG711A:
		return "audio/PCMA"
	case AudioCodecG711U:
		return "audio/PCMU"
	case AudioCodecAAC:
		return "audio/AAC"
	default:
		return ""
	}
}

// PlatformMime returns the MIME type a codec registry uses for this codec.
func (c AudioCodec) PlatformMime() string {
	switch c {
	case AudioCodecOpus:
		return MimeOpus
	case AudioCodecG711A:
		return MimeG711A
	case AudioCodecG711U:
		return MimeG711U
	case AudioCodecAAC:
		return MimeAAC
	default:
		return ""
	}
}

// ClockRate returns the RTP clock rate for this codec.
func (c AudioCodec) ClockRate() uint32 {
	switch c {
	case AudioCodecOpus:
		return 48000
	case AudioCodecG711A, AudioCodecG711U:
		return 8000
	case AudioCodecAAC:
		return 48000 // Varies, but 48kHz is common
	default:
		return 48000
	}
}

// DefaultPayloadType returns a typical payload type for this codec.
func (c AudioCodec) DefaultPayloadType() uint8 {
	switch c {
	case AudioCodecOpus:
		return 111
	case AudioCodecG711A:
		return 8 // Static payload type
	case AudioCodecG711U:
		return 0 // Static payload type
	case AudioCodecAAC:
		return 97
	default:
		return 111
	}
}

// VideoCodecFromMime maps either the platform or the RTP spelling of a MIME
// type to a VideoCodec.
func VideoCodecFromMime(mime string) VideoCodec {
	for _, c := range []VideoCodec{VideoCodecVP8, VideoCodecVP9, VideoCodecH264, VideoCodecH265, VideoCodecAV1} {
		if strings.EqualFold(mime, c.PlatformMime()) || strings.EqualFold(mime, c.MimeType()) {
			return c
		}
	}
	return VideoCodecUnknown
}

// AudioCodecFromMime maps either the platform or the RTP spelling of a MIME
// type to an AudioCodec.
func AudioCodecFromMime(mime string) AudioCodec {
	for _, c := range []AudioCodec{AudioCodecOpus, AudioCodecG711A, AudioCodecG711U, AudioCodecAAC} {
		if strings.EqualFold(mime, c.PlatformMime()) || strings.EqualFold(mime, c.MimeType()) {
			return c
		}
	}
	return AudioCodecUnknown
}

// IsVideoMime reports whether mime names a video type.
func IsVideoMime(mime string) bool {
	return len(mime) > 6 && strings.EqualFold(mime[:6], "video/")
}

// IsAudioMime reports whether mime names an audio type.
func IsAudioMime(mime string) bool {
	return len(mime) > 6 && strings.EqualFold(mime[:6], "audio/")
}
