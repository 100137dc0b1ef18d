package codeccaps

import (
	"fmt"
	"strconv"
	"strings"
)

// ColorFormat is a platform color format code describing the raw frame
// layout a codec accepts or produces. Values follow the Android
// MediaCodecInfo.CodecCapabilities enumeration; the resolver treats them as
// opaque tags.
type ColorFormat int32

const (
	ColorFormatMonochrome                 ColorFormat = 1
	ColorFormat8bitRGB332                 ColorFormat = 2
	ColorFormat12bitRGB444                ColorFormat = 3
	ColorFormat16bitARGB4444              ColorFormat = 4
	ColorFormat16bitARGB1555              ColorFormat = 5
	ColorFormat16bitRGB565                ColorFormat = 6
	ColorFormat16bitBGR565                ColorFormat = 7
	ColorFormat18bitRGB666                ColorFormat = 8
	ColorFormat18bitARGB1665              ColorFormat = 9
	ColorFormat19bitARGB1666              ColorFormat = 10
	ColorFormat24bitRGB888                ColorFormat = 11
	ColorFormat24bitBGR888                ColorFormat = 12
	ColorFormat24bitARGB1887              ColorFormat = 13
	ColorFormat25bitARGB1888              ColorFormat = 14
	ColorFormat32bitBGRA8888              ColorFormat = 15
	ColorFormat32bitARGB8888              ColorFormat = 16
	ColorFormatYUV411Planar               ColorFormat = 17
	ColorFormatYUV411PackedPlanar         ColorFormat = 18
	ColorFormatYUV420Planar               ColorFormat = 19 // I420
	ColorFormatYUV420PackedPlanar         ColorFormat = 20
	ColorFormatYUV420SemiPlanar           ColorFormat = 21 // NV12
	ColorFormatYUV422Planar               ColorFormat = 22
	ColorFormatYUV422PackedPlanar         ColorFormat = 23
	ColorFormatYUV422SemiPlanar           ColorFormat = 24
	ColorFormatYCbYCr                     ColorFormat = 25 // YUYV
	ColorFormatYCrYCb                     ColorFormat = 26
	ColorFormatCbYCrY                     ColorFormat = 27 // UYVY
	ColorFormatCrYCbY                     ColorFormat = 28
	ColorFormatYUV444Interleaved          ColorFormat = 29
	ColorFormatRawBayer8bit               ColorFormat = 30
	ColorFormatRawBayer10bit              ColorFormat = 31
	ColorFormatRawBayer8bitcompressed     ColorFormat = 32
	ColorFormatL2                         ColorFormat = 33
	ColorFormatL4                         ColorFormat = 34
	ColorFormatL8                         ColorFormat = 35
	ColorFormatL16                        ColorFormat = 36
	ColorFormatL24                        ColorFormat = 37
	ColorFormatL32                        ColorFormat = 38
	ColorFormatYUV420PackedSemiPlanar     ColorFormat = 39
	ColorFormatYUV422PackedSemiPlanar     ColorFormat = 40
	ColorFormat18BitBGR666                ColorFormat = 41
	ColorFormat24BitARGB6666              ColorFormat = 42
	ColorFormat24BitABGR6666              ColorFormat = 43
	ColorFormatYUVP010                    ColorFormat = 54
	ColorFormatTIYUV420PackedSemiPlanar   ColorFormat = 0x7F000100
	ColorFormatSurface                    ColorFormat = 0x7F000789 // opaque hardware surface
	ColorFormat32bitABGR2101010           ColorFormat = 0x7F00AAA2
	ColorFormat32bitABGR8888              ColorFormat = 0x7F00A000
	ColorFormatRGBAFlexible               ColorFormat = 0x7F36A888
	ColorFormatRGBFlexible                ColorFormat = 0x7F36B888
	ColorFormatYUV420Flexible             ColorFormat = 0x7F420888
	ColorFormatYUV422Flexible             ColorFormat = 0x7F422888
	ColorFormatYUV444Flexible             ColorFormat = 0x7F444888
	ColorFormatQCOMYUV420SemiPlanar       ColorFormat = 0x7FA30C00
	ColorFormatQCOMYUV420SemiPlanar32m    ColorFormat = 0x7FA30C04
	ColorFormatQCOMYUV420PackedSemiPlanar ColorFormat = 0x7FA30C03
)

// Canonical names, indexed by code. Names match the platform constant names
// so a list printed here can be compared with a device dump directly.
var colorFormatNames = map[ColorFormat]string{
	ColorFormatMonochrome:                 "COLOR_FormatMonochrome",
	ColorFormat8bitRGB332:                 "COLOR_Format8bitRGB332",
	ColorFormat12bitRGB444:                "COLOR_Format12bitRGB444",
	ColorFormat16bitARGB4444:              "COLOR_Format16bitARGB4444",
	ColorFormat16bitARGB1555:              "COLOR_Format16bitARGB1555",
	ColorFormat16bitRGB565:                "COLOR_Format16bitRGB565",
	ColorFormat16bitBGR565:                "COLOR_Format16bitBGR565",
	ColorFormat18bitRGB666:                "COLOR_Format18bitRGB666",
	ColorFormat18bitARGB1665:              "COLOR_Format18bitARGB1665",
	ColorFormat19bitARGB1666:              "COLOR_Format19bitARGB1666",
	ColorFormat24bitRGB888:                "COLOR_Format24bitRGB888",
	ColorFormat24bitBGR888:                "COLOR_Format24bitBGR888",
	ColorFormat24bitARGB1887:              "COLOR_Format24bitARGB1887",
	ColorFormat25bitARGB1888:              "COLOR_Format25bitARGB1888",
	ColorFormat32bitBGRA8888:              "COLOR_Format32bitBGRA8888",
	ColorFormat32bitARGB8888:              "COLOR_Format32bitARGB8888",
	ColorFormatYUV411Planar:               "COLOR_FormatYUV411Planar",
	ColorFormatYUV411PackedPlanar:         "COLOR_FormatYUV411PackedPlanar",
	ColorFormatYUV420Planar:               "COLOR_FormatYUV420Planar",
	ColorFormatYUV420PackedPlanar:         "COLOR_FormatYUV420PackedPlanar",
	ColorFormatYUV420SemiPlanar:           "COLOR_FormatYUV420SemiPlanar",
	ColorFormatYUV422Planar:               "COLOR_FormatYUV422Planar",
	ColorFormatYUV422PackedPlanar:         "COLOR_FormatYUV422PackedPlanar",
	ColorFormatYUV422SemiPlanar:           "COLOR_FormatYUV422SemiPlanar",
	ColorFormatYCbYCr:                     "COLOR_FormatYCbYCr",
	ColorFormatYCrYCb:                     "COLOR_FormatYCrYCb",
	ColorFormatCbYCrY:                     "COLOR_FormatCbYCrY",
	ColorFormatCrYCbY:                     "COLOR_FormatCrYCbY",
	ColorFormatYUV444Interleaved:          "COLOR_FormatYUV444Interleaved",
	ColorFormatRawBayer8bit:               "COLOR_FormatRawBayer8bit",
	ColorFormatRawBayer10bit:              "COLOR_FormatRawBayer10bit",
	ColorFormatRawBayer8bitcompressed:     "COLOR_FormatRawBayer8bitcompressed",
	ColorFormatL2:                         "COLOR_FormatL2",
	ColorFormatL4:                         "COLOR_FormatL4",
	ColorFormatL8:                         "COLOR_FormatL8",
	ColorFormatL16:                        "COLOR_FormatL16",
	ColorFormatL24:                        "COLOR_FormatL24",
	ColorFormatL32:                        "COLOR_FormatL32",
	ColorFormatYUV420PackedSemiPlanar:     "COLOR_FormatYUV420PackedSemiPlanar",
	ColorFormatYUV422PackedSemiPlanar:     "COLOR_FormatYUV422PackedSemiPlanar",
	ColorFormat18BitBGR666:                "COLOR_Format18BitBGR666",
	ColorFormat24BitARGB6666:              "COLOR_Format24BitARGB6666",
	ColorFormat24BitABGR6666:              "COLOR_Format24BitABGR6666",
	ColorFormatYUVP010:                    "COLOR_FormatYUVP010",
	ColorFormatTIYUV420PackedSemiPlanar:   "COLOR_TI_FormatYUV420PackedSemiPlanar",
	ColorFormatSurface:                    "COLOR_FormatSurface",
	ColorFormat32bitABGR2101010:           "COLOR_Format32bitABGR2101010",
	ColorFormat32bitABGR8888:              "COLOR_Format32bitABGR8888",
	ColorFormatRGBAFlexible:               "COLOR_FormatRGBAFlexible",
	ColorFormatRGBFlexible:                "COLOR_FormatRGBFlexible",
	ColorFormatYUV420Flexible:             "COLOR_FormatYUV420Flexible",
	ColorFormatYUV422Flexible:             "COLOR_FormatYUV422Flexible",
	ColorFormatYUV444Flexible:             "COLOR_FormatYUV444Flexible",
	ColorFormatQCOMYUV420SemiPlanar:       "COLOR_QCOM_FormatYUV420SemiPlanar",
	ColorFormatQCOMYUV420SemiPlanar32m:    "COLOR_QCOM_FormatYUV420SemiPlanar32m",
	ColorFormatQCOMYUV420PackedSemiPlanar: "COLOR_QCOM_FormatYUV420PackedSemiPlanar64x32Tile2m8ka",
}

var colorFormatsByName = func() map[string]ColorFormat {
	m := make(map[string]ColorFormat, len(colorFormatNames))
	for code, name := range colorFormatNames {
		m[name] = code
	}
	return m
}()

// Name returns the canonical platform name of the color format. Codes
// without a known name render as COLOR_Format0x%08X so distinct codes never
// share a name.
func (c ColorFormat) Name() string {
	if name, ok := colorFormatNames[c]; ok {
		return name
	}
	return fmt.Sprintf("COLOR_Format0x%08X", uint32(c))
}

func (c ColorFormat) String() string { return c.Name() }

// Known reports whether the code has a canonical name.
func (c ColorFormat) Known() bool {
	_, ok := colorFormatNames[c]
	return ok
}

// Valid reports whether the code can appear in a successful selection.
// Platform color format codes are positive.
func (c ColorFormat) Valid() bool { return c > 0 }

// ParseColorFormat accepts a canonical name (with or without the COLOR_
// prefix), a decimal code, or a 0x-prefixed hex code.
func ParseColorFormat(s string) (ColorFormat, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty color format", ErrInvalidArgument)
	}
	if c, ok := colorFormatsByName[s]; ok {
		return c, nil
	}
	if c, ok := colorFormatsByName["COLOR_"+s]; ok {
		return c, nil
	}
	if rest, ok := strings.CutPrefix(s, "COLOR_Format0x"); ok {
		s = "0x" + rest
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil || v <= 0 || v > 0x7FFFFFFF {
		return 0, fmt.Errorf("%w: unknown color format %q", ErrInvalidArgument, s)
	}
	return ColorFormat(v), nil
}

// FFmpeg pixel format names and the platform color format describing the
// same memory layout. Hardware surface formats all collapse to
// ColorFormatSurface.
var pixFmtColorFormats = map[string]ColorFormat{
	"yuv420p":          ColorFormatYUV420Planar,
	"yuvj420p":         ColorFormatYUV420Planar,
	"nv12":             ColorFormatYUV420SemiPlanar,
	"nv21":             ColorFormatYUV420PackedSemiPlanar,
	"yuv422p":          ColorFormatYUV422Planar,
	"yuvj422p":         ColorFormatYUV422Planar,
	"nv16":             ColorFormatYUV422SemiPlanar,
	"yuv411p":          ColorFormatYUV411Planar,
	"yuyv422":          ColorFormatYCbYCr,
	"yvyu422":          ColorFormatYCrYCb,
	"uyvy422":          ColorFormatCbYCrY,
	"yuv444p":          ColorFormatYUV444Flexible,
	"yuvj444p":         ColorFormatYUV444Flexible,
	"p010le":           ColorFormatYUVP010,
	"gray":             ColorFormatL8,
	"gray16le":         ColorFormatL16,
	"monow":            ColorFormatMonochrome,
	"rgb8":             ColorFormat8bitRGB332,
	"rgb444le":         ColorFormat12bitRGB444,
	"rgb565le":         ColorFormat16bitRGB565,
	"bgr565le":         ColorFormat16bitBGR565,
	"rgb555le":         ColorFormat16bitARGB1555,
	"rgb24":            ColorFormat24bitRGB888,
	"bgr24":            ColorFormat24bitBGR888,
	"bgra":             ColorFormat32bitBGRA8888,
	"argb":             ColorFormat32bitARGB8888,
	"rgba":             ColorFormat32bitABGR8888,
	"x2bgr10le":        ColorFormat32bitABGR2101010,
	"bayer_rggb8":      ColorFormatRawBayer8bit,
	"vaapi":            ColorFormatSurface,
	"cuda":             ColorFormatSurface,
	"qsv":              ColorFormatSurface,
	"videotoolbox_vld": ColorFormatSurface,
	"drm_prime":        ColorFormatSurface,
	"mediacodec":       ColorFormatSurface,
	"vulkan":           ColorFormatSurface,
	"d3d11":            ColorFormatSurface,
}

// ColorFormatFromPixFmt maps an FFmpeg pixel format name to a platform color
// format. The second result is false for layouts with no platform
// equivalent.
func ColorFormatFromPixFmt(name string) (ColorFormat, bool) {
	c, ok := pixFmtColorFormats[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}
