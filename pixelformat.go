package codeccaps

import "fmt"

// PixelFormat represents raw video frame layouts a caller can produce.
type PixelFormat int

const (
	PixelFormatI420   PixelFormat = iota // YUV 4:2:0 planar (Y + U + V)
	PixelFormatNV12                      // YUV 4:2:0 semi-planar (Y + interleaved UV)
	PixelFormatNV21                      // YUV 4:2:0 semi-planar (Y + interleaved VU)
	PixelFormatYUYV                      // YUV 4:2:2 packed
	PixelFormatRGB24                     // Packed RGB, 3 bytes per pixel
	PixelFormatRGBA32                    // Packed RGBA, 4 bytes per pixel
	PixelFormatBGRA32                    // Packed BGRA, 4 bytes per pixel
)

// PixelFormatUnknown marks layouts with no CPU-visible representation.
const PixelFormatUnknown PixelFormat = -1

func (p PixelFormat) String() string {
	switch p {
	case PixelFormatI420:
		return "I420"
	case PixelFormatNV12:
		return "NV12"
	case PixelFormatNV21:
		return "NV21"
	case PixelFormatYUYV:
		return "YUYV"
	case PixelFormatRGB24:
		return "RGB24"
	case PixelFormatRGBA32:
		return "RGBA32"
	case PixelFormatBGRA32:
		return "BGRA32"
	default:
		return "Unknown"
	}
}

// PlaneCount returns the number of planes for this pixel format.
func (p PixelFormat) PlaneCount() int {
	switch p {
	case PixelFormatI420:
		return 3 // Y, U, V
	case PixelFormatNV12, PixelFormatNV21:
		return 2 // Y, UV
	case PixelFormatYUYV, PixelFormatRGB24, PixelFormatRGBA32, PixelFormatBGRA32:
		return 1 // Packed
	default:
		return 0
	}
}

// ColorFormat returns the platform color format with this memory layout.
func (p PixelFormat) ColorFormat() (ColorFormat, bool) {
	switch p {
	case PixelFormatI420:
		return ColorFormatYUV420Planar, true
	case PixelFormatNV12:
		return ColorFormatYUV420SemiPlanar, true
	case PixelFormatNV21:
		return ColorFormatYUV420PackedSemiPlanar, true
	case PixelFormatYUYV:
		return ColorFormatYCbYCr, true
	case PixelFormatRGB24:
		return ColorFormat24bitRGB888, true
	case PixelFormatRGBA32:
		return ColorFormat32bitABGR8888, true
	case PixelFormatBGRA32:
		return ColorFormat32bitBGRA8888, true
	default:
		return 0, false
	}
}

// PixelFormat returns the frame layout a buffer in color format c has.
// Flexible formats report the layout software encoders accept for them
// (I420 for YUV420Flexible). Opaque surfaces and vendor tiled formats have
// no CPU-visible layout and return PixelFormatUnknown.
func (c ColorFormat) PixelFormat() PixelFormat {
	switch c {
	case ColorFormatYUV420Planar, ColorFormatYUV420PackedPlanar, ColorFormatYUV420Flexible:
		return PixelFormatI420
	case ColorFormatYUV420SemiPlanar, ColorFormatQCOMYUV420SemiPlanar, ColorFormatTIYUV420PackedSemiPlanar:
		return PixelFormatNV12
	case ColorFormatYUV420PackedSemiPlanar:
		return PixelFormatNV21
	case ColorFormatYCbYCr:
		return PixelFormatYUYV
	case ColorFormat24bitRGB888, ColorFormatRGBFlexible:
		return PixelFormatRGB24
	case ColorFormat32bitABGR8888, ColorFormatRGBAFlexible:
		return PixelFormatRGBA32
	case ColorFormat32bitBGRA8888:
		return PixelFormatBGRA32
	default:
		return PixelFormatUnknown
	}
}

// SelectColorFormatFor returns the first color format in caps whose layout
// is one of want, trying caps in platform order. It fails with ErrNotFound
// when none matches.
func SelectColorFormatFor(caps Capabilities, want ...PixelFormat) (ColorFormat, PixelFormat, error) {
	for _, f := range caps.ColorFormats {
		pf := f.PixelFormat()
		if pf == PixelFormatUnknown {
			continue
		}
		for _, w := range want {
			if w == pf {
				return f, pf, nil
			}
		}
	}
	return 0, PixelFormatUnknown, fmt.Errorf("%w: no color format for %s with layout %v", ErrNotFound, caps.MimeType, want)
}
