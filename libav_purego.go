//go:build darwin || linux

package codeccaps

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	libavOnce    sync.Once
	libavInitErr error
	libavcodec   uintptr
	libavutil    uintptr
)

// libav function pointers
var (
	avCodecIterate   func(opaque *uintptr) uintptr
	avCodecIsEncoder func(codec uintptr) int32
	avcodecGetName   func(id int32) uintptr
	avcodecVersion   func() uint32
	avGetPixFmtName  func(pixFmt int32) uintptr

	// nil before lavc 61.13
	avcodecGetSupportedConfig func(avctx, codec uintptr, config int32, flags uint32, outConfigs *uintptr, outNum *int32) int32
)

// Field offsets in struct AVCodec (libavcodec/codec.h, stable since
// FFmpeg 4 on 64-bit targets). pix_fmts is only read when
// avcodec_get_supported_config is missing.
const (
	avCodecOffName         = 0
	avCodecOffType         = 16
	avCodecOffID           = 20
	avCodecOffCapabilities = 24
	avCodecOffPixFmts      = 40
)

const avPixFmtNone = -1

// pix_fmts arrays are short; the cap only guards against a bad layout.
const maxPixFmts = 256

func libavNames(base string, versions ...string) []string {
	var names []string
	for _, v := range versions {
		if runtime.GOOS == "darwin" {
			names = append(names, base+"."+v+".dylib")
		} else {
			names = append(names, base+".so."+v)
		}
	}
	if runtime.GOOS == "darwin" {
		return append(names, base+".dylib")
	}
	return append(names, base+".so")
}

func dlopenFirst(paths []string) (uintptr, error) {
	var lastErr error
	for _, path := range paths {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return handle, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no candidate paths")
	}
	return 0, lastErr
}

func loadLibav(dir string) error {
	libavOnce.Do(func() {
		if unsafe.Sizeof(uintptr(0)) != 8 {
			libavInitErr = fmt.Errorf("%w: libav bindings need a 64-bit target", ErrBackendUnavailable)
			return
		}

		var err error
		// libavutil first; libavcodec links against it.
		libavutil, err = dlopenFirst(nativeLibPaths(dir, "LIBAV_LIB_PATH", libavNames("libavutil", "60", "59", "58", "57", "56")...))
		if err != nil {
			libavInitErr = fmt.Errorf("%w: libavutil: %w", ErrBackendUnavailable, err)
			return
		}
		libavcodec, err = dlopenFirst(nativeLibPaths(dir, "LIBAV_LIB_PATH", libavNames("libavcodec", "62", "61", "60", "59", "58")...))
		if err != nil {
			libavInitErr = fmt.Errorf("%w: libavcodec: %w", ErrBackendUnavailable, err)
			return
		}

		// Load function pointers
		purego.RegisterLibFunc(&avCodecIterate, libavcodec, "av_codec_iterate")
		purego.RegisterLibFunc(&avCodecIsEncoder, libavcodec, "av_codec_is_encoder")
		purego.RegisterLibFunc(&avcodecGetName, libavcodec, "avcodec_get_name")
		purego.RegisterLibFunc(&avcodecVersion, libavcodec, "avcodec_version")
		purego.RegisterLibFunc(&avGetPixFmtName, libavutil, "av_get_pix_fmt_name")
		if hasSupportedConfig(avcodecVersion()) {
			sym, err := purego.Dlsym(libavcodec, "avcodec_get_supported_config")
			if err != nil {
				libavInitErr = fmt.Errorf("%w: libavcodec: %w", ErrBackendUnavailable, err)
				return
			}
			purego.RegisterFunc(&avcodecGetSupportedConfig, sym)
		}

		setBackendAvailable(BackendLibav)
	})
	return libavInitErr
}

// IsLibavAvailable returns true if libavcodec could be loaded.
func IsLibavAvailable() bool {
	return loadLibav("") == nil
}

// Codecs iterates libavcodec's codec list.
func (r *LibavRegistry) Codecs(ctx context.Context) ([]CodecDescriptor, error) {
	err := loadLibav(r.libDir)
	observeProbe(BackendLibav, err)
	if err != nil {
		return nil, err
	}
	v := avcodecVersion()
	r.logger.Debug().
		Uint32("major", v>>16).
		Uint32("minor", (v>>8)&0xFF).
		Msg("enumerating libavcodec")

	var (
		out    []CodecDescriptor
		opaque uintptr
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		codec := avCodecIterate(&opaque)
		if codec == 0 {
			break
		}
		d, ok := r.describe(codec)
		if ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *LibavRegistry) describe(codec uintptr) (CodecDescriptor, bool) {
	mediaType := readInt32(codec, avCodecOffType)
	if mediaType != avMediaTypeVideo && mediaType != avMediaTypeAudio {
		return CodecDescriptor{}, false
	}
	mime, ok := ffmpegCodecMimes[goStringFromPtr(avcodecGetName(readInt32(codec, avCodecOffID)))]
	if !ok {
		return CodecDescriptor{}, false
	}
	name := goStringFromPtr(readPtr(codec, avCodecOffName))

	var formats []ColorFormat
	if mediaType == avMediaTypeVideo {
		for _, pixFmt := range r.pixFmts(codec, name) {
			pixName := goStringFromPtr(avGetPixFmtName(pixFmt))
			f, ok := ColorFormatFromPixFmt(pixName)
			if !ok {
				r.logger.Debug().Str("codec", name).Str("pix_fmt", pixName).Msg("pixel format has no color format")
				continue
			}
			formats = append(formats, f)
		}
	}

	d := NewCodecDescriptor(name, avCodecIsEncoder(codec) != 0, NewCapabilities(mime, formats))
	d.Vendor = "libavcodec"
	d.HardwareAccelerated = readInt32(codec, avCodecOffCapabilities)&avCodecCapHardware != 0 || isFFmpegHardware(name)
	d.SoftwareOnly = !d.HardwareAccelerated
	return d, true
}

// pixFmts returns the pixel formats codec accepts, through
// avcodec_get_supported_config where libavcodec has it.
func (r *LibavRegistry) pixFmts(codec uintptr, name string) []int32 {
	if avcodecGetSupportedConfig == nil {
		return readPixFmts(readPtr(codec, avCodecOffPixFmts))
	}
	var (
		configs uintptr
		n       int32
	)
	if ret := avcodecGetSupportedConfig(0, codec, avCodecConfigPixFormat, 0, &configs, &n); ret < 0 {
		r.logger.Debug().Str("codec", name).Int32("averror", ret).Msg("avcodec_get_supported_config failed")
		return nil
	}
	// A NULL list means any format; there is nothing to report.
	return readPixFmts(configs)
}

func readPtr(base uintptr, off uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(base + off))
}

func readInt32(base uintptr, off uintptr) int32 {
	return *(*int32)(unsafe.Pointer(base + off))
}

// readPixFmts reads an AV_PIX_FMT_NONE terminated array.
func readPixFmts(ptr uintptr) []int32 {
	if ptr == 0 {
		return nil
	}
	var fmts []int32
	for i := uintptr(0); i < maxPixFmts; i++ {
		v := *(*int32)(unsafe.Pointer(ptr + i*4))
		if v == avPixFmtNone {
			break
		}
		fmts = append(fmts, v)
	}
	return fmts
}
