// Package codeccaps selects a codec and a raw color format for a media MIME
// type from the codecs a platform advertises.
//
// Key pieces include:
//   - Resolver: SelectFirstCodec, plus the pure helpers SelectFirstColorFormat
//     and ColorFormatList
//   - CodecDescriptor/Capabilities value types copied out of each snapshot
//   - ColorFormat codes (Android MediaCodecInfo numbering) and their names
//   - Registry backends: static lists, YAML device dumps, ffmpeg probing and
//     libavcodec via purego
//   - WebRTC/RTP bridges: codec capabilities for a pion MediaEngine and
//     payloaders for the resolved MIME type
//   - RTMP bridge: connect command codec flags from the resolved MIME types
//
// # Selection Policy
//
// "First" means first in the registry's enumeration order. The resolver
// adds no ranking (no hardware preference); callers needing one wrap the
// Registry. By default only encoders are considered (see WithRole).
//
// Every query takes a fresh snapshot from the registry; nothing is cached
// between calls and a Resolver is safe for concurrent use.
//
// # Native Libraries
//
// The libav backend loads libavcodec/libavutil at runtime with purego
// (no cgo). Set LIBAV_LIB_PATH or STREAM_SDK_LIB_PATH to the directory
// containing them when they are not in a system location.
//
// # Errors
//
// Failures wrap ErrNotFound, ErrInvalidArgument or ErrBackendUnavailable;
// test with errors.Is. Nothing is retried.
package codeccaps
