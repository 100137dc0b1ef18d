package codeccaps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	rtmpmsg "github.com/yutopp/go-rtmp/message"
)

// Codec support flags of the RTMP connect command (videoCodecs and
// audioCodecs properties). Only flags with a platform MIME type are listed.
const (
	RTMPVideoSorenson = 0x0004 // SUPPORT_VID_SORENSON (H.263)
	RTMPVideoH264     = 0x0080 // SUPPORT_VID_H264

	RTMPAudioG711A = 0x0080 // SUPPORT_SND_G711A
	RTMPAudioG711U = 0x0100 // SUPPORT_SND_G711U
	RTMPAudioAAC   = 0x0400 // SUPPORT_SND_AAC
)

type rtmpCodecFlag struct {
	mime  string
	flag  int
	video bool
}

// Table order is the order RTMPAdvertisedMimes reports.
var rtmpCodecFlags = []rtmpCodecFlag{
	{MimeAVC, RTMPVideoH264, true},
	{MimeH263, RTMPVideoSorenson, true},
	{MimeAAC, RTMPAudioAAC, false},
	{MimeG711A, RTMPAudioG711A, false},
	{MimeG711U, RTMPAudioG711U, false},
}

// rtmpFlagFor accepts either the platform or the RTP spelling of mime.
func rtmpFlagFor(mime string) (rtmpCodecFlag, bool) {
	if v := VideoCodecFromMime(mime); v != VideoCodecUnknown {
		mime = v.PlatformMime()
	} else if a := AudioCodecFromMime(mime); a != AudioCodecUnknown {
		mime = a.PlatformMime()
	}
	for _, f := range rtmpCodecFlags {
		if strings.EqualFold(f.mime, mime) {
			return f, true
		}
	}
	return rtmpCodecFlag{}, false
}

// RTMPConnectCodecs sets cmd.VideoCodecs and cmd.AudioCodecs to the flags
// of every MIME type in mimes for which r resolves a codec. RTP spellings
// such as video/H264 are accepted. Previous flag values are replaced. MIME types with no codec, or no RTMP flag, are
// returned in skipped; any other failure leaves cmd untouched.
func RTMPConnectCodecs(ctx context.Context, cmd *rtmpmsg.NetConnectionConnectCommand, r *Resolver, mimes ...string) (skipped []string, err error) {
	var video, audio int
	for _, mime := range mimes {
		f, ok := rtmpFlagFor(mime)
		if !ok {
			skipped = append(skipped, mime)
			continue
		}
		if _, err := r.SelectFirstCodec(ctx, f.mime); err != nil {
			if errors.Is(err, ErrNotFound) {
				skipped = append(skipped, mime)
				continue
			}
			return skipped, err
		}
		if f.video {
			video |= f.flag
		} else {
			audio |= f.flag
		}
	}
	cmd.VideoCodecs = video
	cmd.AudioCodecs = audio
	return skipped, nil
}

// RTMPAdvertisedMimes decodes the codec flags of a connect command into
// platform MIME types. Flags without a MIME type are ignored.
func RTMPAdvertisedMimes(cmd rtmpmsg.NetConnectionConnectCommand) []string {
	var mimes []string
	for _, f := range rtmpCodecFlags {
		bits := cmd.AudioCodecs
		if f.video {
			bits = cmd.VideoCodecs
		}
		if bits&f.flag != 0 {
			mimes = append(mimes, f.mime)
		}
	}
	return mimes
}

// CheckRTMPConnect resolves every MIME type a peer advertises in its
// connect command and splits them into those r can serve and those it
// cannot. Registry failures are returned as is.
func CheckRTMPConnect(ctx context.Context, r *Resolver, cmd rtmpmsg.NetConnectionConnectCommand) (supported, unsupported []string, err error) {
	for _, mime := range RTMPAdvertisedMimes(cmd) {
		if _, err := r.SelectFirstCodec(ctx, mime); err != nil {
			if errors.Is(err, ErrNotFound) {
				unsupported = append(unsupported, mime)
				continue
			}
			return supported, unsupported, fmt.Errorf("check rtmp %s: %w", mime, err)
		}
		supported = append(supported, mime)
	}
	return supported, unsupported, nil
}

// FLVVideoMime returns the platform MIME type for the first byte of an FLV
// video tag (codec id in the low nibble), or "" if it has none.
func FLVVideoMime(header byte) string {
	switch header & 0x0F {
	case 2:
		return MimeH263
	case 7:
		return MimeAVC
	case 12:
		return MimeHEVC
	default:
		return ""
	}
}

// FLVAudioMime returns the platform MIME type for the first byte of an FLV
// audio tag (sound format in the high nibble), or "" if it has none.
func FLVAudioMime(header byte) string {
	switch header >> 4 {
	case 7:
		return MimeG711A
	case 8:
		return MimeG711U
	case 10:
		return MimeAAC
	default:
		return ""
	}
}
