package codeccaps

import (
	"context"
	"errors"
	"fmt"

	"github.com/pion/webrtc/v4"
)

// RTPCodecType is an alias to pion's webrtc.RTPCodecType.
type RTPCodecType = webrtc.RTPCodecType

// RTPCodecCapability returns the WebRTC codec capability for a platform or
// RTP MIME type. Unknown MIME types fail with ErrNotFound.
func RTPCodecCapability(mime string) (webrtc.RTPCodecCapability, RTPCodecType, error) {
	videoFeedback := []webrtc.RTCPFeedback{
		{Type: webrtc.TypeRTCPFBNACK},
		{Type: webrtc.TypeRTCPFBNACK, Parameter: "pli"},
		{Type: webrtc.TypeRTCPFBCCM, Parameter: "fir"},
		{Type: webrtc.TypeRTCPFBGoogREMB},
	}

	switch v := VideoCodecFromMime(mime); v {
	case VideoCodecH264:
		return webrtc.RTPCodecCapability{
			MimeType:     webrtc.MimeTypeH264,
			ClockRate:    v.ClockRate(),
			SDPFmtpLine:  "level-asymmetry-allowed=1;packetization-mode=1;profile-level-id=42e01f",
			RTCPFeedback: videoFeedback,
		}, webrtc.RTPCodecTypeVideo, nil
	case VideoCodecVP9:
		return webrtc.RTPCodecCapability{
			MimeType:     webrtc.MimeTypeVP9,
			ClockRate:    v.ClockRate(),
			SDPFmtpLine:  "profile-id=0",
			RTCPFeedback: videoFeedback,
		}, webrtc.RTPCodecTypeVideo, nil
	case VideoCodecVP8, VideoCodecH265, VideoCodecAV1:
		return webrtc.RTPCodecCapability{
			MimeType:     v.MimeType(),
			ClockRate:    v.ClockRate(),
			RTCPFeedback: videoFeedback,
		}, webrtc.RTPCodecTypeVideo, nil
	}

	switch a := AudioCodecFromMime(mime); a {
	case AudioCodecOpus:
		return webrtc.RTPCodecCapability{
			MimeType:    webrtc.MimeTypeOpus,
			ClockRate:   a.ClockRate(),
			Channels:    2,
			SDPFmtpLine: "minptime=10;useinbandfec=1",
		}, webrtc.RTPCodecTypeAudio, nil
	case AudioCodecG711A, AudioCodecG711U:
		return webrtc.RTPCodecCapability{
			MimeType:  a.MimeType(),
			ClockRate: a.ClockRate(),
			Channels:  1,
		}, webrtc.RTPCodecTypeAudio, nil
	}

	return webrtc.RTPCodecCapability{}, webrtc.RTPCodecTypeUnknown, fmt.Errorf("%w: no RTP mapping for %s", ErrNotFound, mime)
}

func defaultPayloadType(mime string) webrtc.PayloadType {
	if v := VideoCodecFromMime(mime); v != VideoCodecUnknown {
		return webrtc.PayloadType(v.DefaultPayloadType())
	}
	return webrtc.PayloadType(AudioCodecFromMime(mime).DefaultPayloadType())
}

// RegisterResolvedCodecs registers with engine every MIME type in mimes for
// which r resolves a codec, using default payload types. MIME types with no
// codec, or no RTP mapping, are returned in skipped; any other failure
// aborts registration.
func RegisterResolvedCodecs(ctx context.Context, engine *webrtc.MediaEngine, r *Resolver, mimes ...string) (registered, skipped []string, err error) {
	for _, mime := range mimes {
		capability, kind, err := RTPCodecCapability(mime)
		if err != nil {
			skipped = append(skipped, mime)
			continue
		}
		if _, err := r.SelectFirstCodec(ctx, mime); err != nil {
			if errors.Is(err, ErrNotFound) {
				skipped = append(skipped, mime)
				continue
			}
			return registered, skipped, err
		}
		params := webrtc.RTPCodecParameters{
			RTPCodecCapability: capability,
			PayloadType:        defaultPayloadType(mime),
		}
		if err := engine.RegisterCodec(params, kind); err != nil {
			return registered, skipped, fmt.Errorf("register %s: %w", mime, err)
		}
		registered = append(registered, mime)
	}
	return registered, skipped, nil
}
