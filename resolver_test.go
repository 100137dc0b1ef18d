package codeccaps

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is the per-test setup shared by the resolver scenarios: a
// registry built from the captured device dump and a resolver over it.
type fixture struct {
	registry *StaticRegistry
	resolver *Resolver
	codec    CodecDescriptor // first encoder for MimeAVC
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	data, err := os.ReadFile("testdata/device.yaml")
	require.NoError(t, err)
	snap, err := ParseSnapshot(data)
	require.NoError(t, err)

	f := &fixture{registry: NewStaticRegistry(snap.Descriptors()...)}
	f.resolver = NewResolver(f.registry, opts...)
	f.codec, err = NewResolver(f.registry).SelectFirstCodec(context.Background(), MimeAVC)
	require.NoError(t, err)
	return f
}

func TestSelectFirstCodec(t *testing.T) {
	tests := []struct {
		name string
		role Role
		mime string
		want string
	}{
		{"encoder avc", RoleEncoder, MimeAVC, "c2.exynos.h264.encoder"},
		{"encoder avc upper case", RoleEncoder, "VIDEO/AVC", "c2.exynos.h264.encoder"},
		{"decoder avc", RoleDecoder, MimeAVC, "c2.android.avc.decoder"},
		{"any avc", RoleAny, MimeAVC, "c2.android.avc.decoder"},
		{"encoder second type", RoleEncoder, MimeH263, "c2.android.mpeg4-h263.encoder"},
		{"encoder audio", RoleEncoder, MimeOpus, "c2.android.opus.encoder"},
		{"decoder vp9", RoleDecoder, MimeVP9, "c2.android.vp9.decoder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, WithRole(tt.role))
			got, err := f.resolver.SelectFirstCodec(context.Background(), tt.mime)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
			assert.True(t, got.SupportsType(tt.mime))
			assert.True(t, tt.role.Matches(got.Encoder))
		})
	}
}

func TestSelectFirstCodec_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.resolver.SelectFirstCodec(ctx, "video/nonexistent")
	require.ErrorIs(t, err, ErrNotFound)

	// VP9 only has a decoder in the dump.
	_, err = f.resolver.SelectFirstCodec(ctx, MimeVP9)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSelectFirstCodec_EmptyMime(t *testing.T) {
	f := newFixture(t)
	for _, mime := range []string{"", "   "} {
		_, err := f.resolver.SelectFirstCodec(context.Background(), mime)
		require.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestSelectFirstCodec_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.resolver.SelectFirstCodec(ctx, MimeAVC)
	require.NoError(t, err)
	second, err := f.resolver.SelectFirstCodec(ctx, MimeAVC)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
}

func TestSelectFirstCodec_RegistryError(t *testing.T) {
	boom := errors.New("media service died")
	r := NewResolver(RegistryFunc(func(context.Context) ([]CodecDescriptor, error) {
		return nil, boom
	}))

	_, err := r.SelectFirstCodec(context.Background(), MimeAVC)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSelectFirstCodec_CanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.resolver.SelectFirstCodec(ctx, MimeAVC)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSelectFirstCodec_NoHardwarePreference(t *testing.T) {
	sw := NewCodecDescriptor("sw.avc.encoder", true, NewCapabilities(MimeAVC, []ColorFormat{ColorFormatYUV420Planar}))
	sw.SoftwareOnly = true
	hw := NewCodecDescriptor("hw.avc.encoder", true, NewCapabilities(MimeAVC, []ColorFormat{ColorFormatSurface}))
	hw.HardwareAccelerated = true

	r := NewResolver(NewStaticRegistry(sw, hw))
	got, err := r.SelectFirstCodec(context.Background(), MimeAVC)
	require.NoError(t, err)
	assert.Equal(t, "sw.avc.encoder", got.Name)
}

func TestSelectFirstColorFormat(t *testing.T) {
	f := newFixture(t)

	got, err := SelectFirstColorFormat(f.codec, MimeAVC)
	require.NoError(t, err)
	assert.Greater(t, int32(got), int32(0))
	assert.Equal(t, ColorFormatSurface, got)
}

func TestSelectFirstColorFormat_PlatformOrder(t *testing.T) {
	tests := []struct {
		name    string
		formats []ColorFormat
		want    ColorFormat
	}{
		{"first wins", []ColorFormat{ColorFormatYUV420SemiPlanar, ColorFormatYUV420Planar}, ColorFormatYUV420SemiPlanar},
		{"unknown code kept", []ColorFormat{ColorFormat(0x7F000001), ColorFormatYUV420Planar}, ColorFormat(0x7F000001)},
		{"non-positive skipped", []ColorFormat{0, -3, ColorFormatYUV420Planar}, ColorFormatYUV420Planar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := NewCodecDescriptor("test.encoder", true, NewCapabilities(MimeAVC, tt.formats))
			got, err := SelectFirstColorFormat(codec, MimeAVC)
			if err != nil {
				t.Fatalf("SelectFirstColorFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SelectFirstColorFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectFirstColorFormat_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Codec does not list the MIME type.
	_, err := SelectFirstColorFormat(f.codec, MimeVP8)
	require.ErrorIs(t, err, ErrInvalidArgument)

	// Codec lists the MIME type with no color formats.
	hevc, err := f.resolver.SelectFirstCodec(ctx, MimeHEVC)
	require.NoError(t, err)
	_, err = SelectFirstColorFormat(hevc, MimeHEVC)
	require.ErrorIs(t, err, ErrNotFound)

	// Only non-positive codes.
	bad := NewCodecDescriptor("bad.encoder", true, NewCapabilities(MimeAVC, []ColorFormat{0, -1}))
	_, err = SelectFirstColorFormat(bad, MimeAVC)
	require.ErrorIs(t, err, ErrNotFound)

	// Zero descriptor.
	_, err = SelectFirstColorFormat(CodecDescriptor{}, MimeAVC)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestColorFormatList(t *testing.T) {
	f := newFixture(t)

	caps, err := f.codec.CapabilitiesFor(MimeAVC)
	require.NoError(t, err)

	list := ColorFormatList(caps)
	require.NotEmpty(t, list)
	assert.Len(t, list, len(caps.ColorFormats))
	assert.Equal(t, map[string]ColorFormat{
		"COLOR_FormatSurface":          ColorFormatSurface,
		"COLOR_FormatYUV420Flexible":   ColorFormatYUV420Flexible,
		"COLOR_FormatYUV420SemiPlanar": ColorFormatYUV420SemiPlanar,
	}, list)
}

func TestColorFormatList_SizeMatchesReported(t *testing.T) {
	tests := []struct {
		name    string
		formats []ColorFormat
		want    int
	}{
		{"empty", nil, 0},
		{"single", []ColorFormat{ColorFormatYUV420Planar}, 1},
		{"duplicates collapse at construction", []ColorFormat{19, 21, 19, 21}, 2},
		{"unknown codes get distinct names", []ColorFormat{0x7F000001, 0x7F000002, 19}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := NewCapabilities(MimeAVC, tt.formats)
			list := ColorFormatList(caps)
			if len(list) != tt.want || len(list) != len(caps.ColorFormats) {
				t.Errorf("len(ColorFormatList()) = %d, want %d (reported %d)", len(list), tt.want, len(caps.ColorFormats))
			}
			for name, code := range list {
				if code.Name() != name {
					t.Errorf("list[%q] = %v, name mismatch", name, code)
				}
			}
		})
	}
}

func TestColorFormatList_LiteralDuplicates(t *testing.T) {
	caps := Capabilities{MimeType: MimeAVC, ColorFormats: []ColorFormat{19, 21, 19}}

	list := ColorFormatList(caps)
	assert.Equal(t, map[string]ColorFormat{
		"COLOR_FormatYUV420Planar":     ColorFormatYUV420Planar,
		"COLOR_FormatYUV420SemiPlanar": ColorFormatYUV420SemiPlanar,
	}, list)
	// Same result as the deduplicated set.
	assert.Equal(t, ColorFormatList(NewCapabilities(caps.MimeType, caps.ColorFormats)), list)
}

func TestResolve_AVCScenario(t *testing.T) {
	f := newFixture(t)

	sel, err := f.resolver.Resolve(context.Background(), MimeAVC)
	require.NoError(t, err)
	assert.False(t, sel.Codec.IsZero())
	assert.Greater(t, int32(sel.ColorFormat), int32(0))
	assert.NotEmpty(t, sel.ColorFormats)
	assert.Contains(t, sel.ColorFormats, sel.ColorFormat.Name())
}

func TestResolve_NoColorFormat(t *testing.T) {
	f := newFixture(t)

	sel, err := f.resolver.Resolve(context.Background(), MimeOpus)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "c2.android.opus.encoder", sel.Codec.Name)
}

func TestCodecDescriptor_ReadOnly(t *testing.T) {
	f := newFixture(t)

	caps, err := f.codec.CapabilitiesFor(MimeAVC)
	require.NoError(t, err)
	caps.ColorFormats[0] = -1

	types := f.codec.Types()
	types[0] = "video/mangled"

	again, err := f.codec.CapabilitiesFor(MimeAVC)
	require.NoError(t, err)
	assert.Equal(t, ColorFormatSurface, again.ColorFormats[0])
	assert.True(t, f.codec.SupportsType(MimeAVC))

	// Snapshots handed out by the registry are independent too.
	snap, err := f.registry.Codecs(context.Background())
	require.NoError(t, err)
	snap[0] = CodecDescriptor{}
	snap2, err := f.registry.Codecs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "c2.android.avc.decoder", snap2[0].Name)
}

func TestResolver_Concurrent(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sel, err := f.resolver.Resolve(context.Background(), MimeAVC)
			if err == nil && sel.Codec.Name != "c2.exynos.h264.encoder" {
				err = errors.New("unexpected codec " + sel.Codec.Name)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestResolver_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	f := newFixture(t, WithLogger(logger))

	_, err := f.resolver.SelectFirstCodec(context.Background(), MimeAVC)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"codec":"c2.exynos.h264.encoder"`)
	assert.Contains(t, buf.String(), `"role":"encoder"`)
	assert.Contains(t, buf.String(), "codec selected")
}

func TestResolver_Metrics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	notFound := ResolveTotal.WithLabelValues(opSelectCodec, outcomeNotFound)
	ok := ResolveTotal.WithLabelValues(opSelectCodec, outcomeOK)
	beforeNotFound := testutil.ToFloat64(notFound)
	beforeOK := testutil.ToFloat64(ok)

	_, _ = f.resolver.SelectFirstCodec(ctx, "video/nonexistent")
	_, _ = f.resolver.SelectFirstCodec(ctx, MimeAVC)

	assert.Equal(t, beforeNotFound+1, testutil.ToFloat64(notFound))
	assert.Equal(t, beforeOK+1, testutil.ToFloat64(ok))
}

func TestRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"", RoleEncoder, false},
		{"encoder", RoleEncoder, false},
		{"Decoder", RoleDecoder, false},
		{" any ", RoleAny, false},
		{"both", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseRole(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if !RoleAny.Matches(true) || !RoleAny.Matches(false) {
		t.Error("RoleAny should match both directions")
	}
	if RoleEncoder.Matches(false) || RoleDecoder.Matches(true) {
		t.Error("role matched the wrong direction")
	}
}
