package codeccaps

import "github.com/prometheus/client_golang/prometheus"

const (
	opSelectCodec       = "select_codec"
	opSelectColorFormat = "select_color_format"
	opColorFormatList   = "color_format_list"

	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeInvalid  = "invalid_argument"
	outcomeError    = "registry_error"
)

// ResolveTotal counts resolver operations by operation and outcome.
// It is not registered anywhere until RegisterMetrics is called.
var ResolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "codeccaps_resolve_total",
	Help: "Total number of codec capability queries, by operation and outcome.",
}, []string{"op", "outcome"})

// RegistryProbeTotal counts registry snapshots taken by backend and outcome.
var RegistryProbeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "codeccaps_registry_probe_total",
	Help: "Total number of registry snapshots, by backend and outcome.",
}, []string{"backend", "outcome"})

// RegisterMetrics registers the package collectors with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{ResolveTotal, RegistryProbeTotal} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func observe(op, outcome string) {
	ResolveTotal.WithLabelValues(op, outcome).Inc()
}

func observeProbe(b Backend, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = outcomeError
	}
	RegistryProbeTotal.WithLabelValues(b.String(), outcome).Inc()
}
