//go:build !darwin && !linux

package codeccaps

import "context"

// IsLibavAvailable returns false: the libav bindings need darwin or linux.
func IsLibavAvailable() bool { return false }

// Codecs always fails with ErrBackendUnavailable on this platform.
func (r *LibavRegistry) Codecs(ctx context.Context) ([]CodecDescriptor, error) {
	observeProbe(BackendLibav, ErrBackendUnavailable)
	return nil, ErrBackendUnavailable
}
