package codeccaps

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLibavRegistry(t *testing.T) {
	if !IsLibavAvailable() {
		t.Skip("libavcodec not available")
	}

	codecs, err := NewLibavRegistry("", zerolog.Nop()).Codecs(context.Background())
	if err != nil {
		t.Fatalf("Codecs() error = %v", err)
	}
	if len(codecs) == 0 {
		t.Fatal("libavcodec reports no mapped codecs")
	}
	if !BackendLibav.Available() {
		t.Error("BackendLibav should be marked available after a load")
	}

	for _, c := range codecs {
		if c.Name == "" {
			t.Errorf("codec with empty name: %v", c)
		}
		if c.Vendor != "libavcodec" {
			t.Errorf("%s: vendor = %q", c.Name, c.Vendor)
		}
		types := c.Types()
		if len(types) != 1 {
			t.Errorf("%s: types = %v, want one", c.Name, types)
			continue
		}
		caps, err := c.CapabilitiesFor(types[0])
		if err != nil {
			t.Errorf("%s: CapabilitiesFor(%s) error = %v", c.Name, types[0], err)
			continue
		}
		if IsAudioMime(types[0]) && len(caps.ColorFormats) != 0 {
			t.Errorf("%s: audio codec reports color formats %v", c.Name, caps.ColorFormats)
		}
	}

	// The native MPEG-4 encoder takes yuv420p only; seeing it checks the
	// pixel format path for the loaded libavcodec version.
	for _, c := range codecs {
		if c.Name != "mpeg4" || !c.Encoder {
			continue
		}
		caps, err := c.CapabilitiesFor(MimeMPEG4)
		if err != nil {
			t.Fatalf("mpeg4: CapabilitiesFor error = %v", err)
		}
		if !caps.SupportsColorFormat(ColorFormatYUV420Planar) {
			t.Errorf("mpeg4 encoder color formats = %v, want %v", caps.ColorFormats, ColorFormatYUV420Planar)
		}
	}

	// Every libavcodec build has the native H.264 decoder.
	dec, err := NewResolver(NewLibavRegistry("", zerolog.Nop()), WithRole(RoleDecoder)).
		SelectFirstCodec(context.Background(), MimeAVC)
	if err != nil {
		t.Fatalf("SelectFirstCodec(decoder, avc) error = %v", err)
	}
	t.Logf("first H.264 decoder: %s", dec)
}

func TestLibavRegistry_Unavailable(t *testing.T) {
	if IsLibavAvailable() {
		t.Skip("libavcodec is available")
	}

	_, err := NewLibavRegistry("", zerolog.Nop()).Codecs(context.Background())
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("Codecs() error = %v, want ErrBackendUnavailable", err)
	}
}

func TestHasSupportedConfig(t *testing.T) {
	version := func(major, minor, micro uint32) uint32 { return major<<16 | minor<<8 | micro }
	tests := []struct {
		name    string
		version uint32
		want    bool
	}{
		{"ffmpeg 4", version(58, 134, 100), false},
		{"ffmpeg 6", version(60, 31, 102), false},
		{"lavc 61.12", version(61, 12, 100), false},
		{"lavc 61.13", version(61, 13, 100), true},
		{"ffmpeg 7.1", version(61, 19, 100), true},
		{"ffmpeg 8", version(62, 11, 100), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasSupportedConfig(tt.version); got != tt.want {
				t.Errorf("hasSupportedConfig(%#x) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}
