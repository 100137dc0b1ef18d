package codeccaps

import (
	"fmt"

	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
)

// DefaultMTU is the RTP payload budget used when NewPacketizer gets 0.
const DefaultMTU = 1200

// NewPayloader returns the pion payloader for a platform or RTP MIME type.
func NewPayloader(mime string) (rtp.Payloader, error) {
	switch VideoCodecFromMime(mime) {
	case VideoCodecH264:
		return &codecs.H264Payloader{}, nil
	case VideoCodecVP8:
		return &codecs.VP8Payloader{EnablePictureID: true}, nil
	case VideoCodecVP9:
		return &codecs.VP9Payloader{}, nil
	case VideoCodecAV1:
		return &codecs.AV1Payloader{}, nil
	}
	switch AudioCodecFromMime(mime) {
	case AudioCodecOpus:
		return &codecs.OpusPayloader{}, nil
	case AudioCodecG711A, AudioCodecG711U:
		return &codecs.G711Payloader{}, nil
	}
	return nil, fmt.Errorf("%w: no payloader for %s", ErrNotFound, mime)
}

// NewPacketizer builds an RTP packetizer for mime with its default payload
// type and clock rate and a random initial sequence number.
func NewPacketizer(mime string, mtu uint16, ssrc uint32) (rtp.Packetizer, error) {
	payloader, err := NewPayloader(mime)
	if err != nil {
		return nil, err
	}
	if mtu == 0 {
		mtu = DefaultMTU
	}
	pt := uint8(defaultPayloadType(mime))
	clockRate := VideoCodecH264.ClockRate()
	if a := AudioCodecFromMime(mime); a != AudioCodecUnknown {
		clockRate = a.ClockRate()
	}
	return rtp.NewPacketizer(mtu, pt, ssrc, payloader, rtp.NewRandomSequencer(), clockRate), nil
}
