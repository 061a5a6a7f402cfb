package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(buildInfo) }

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Constant 1, labelled with version, commit, Go version and sign algorithm.",
	},
	[]string{"version", "commit", "go_version", "sign_algo"},
)

func SetBuildInfo(version, commit, signAlgo string) {
	buildInfo.WithLabelValues(version, commit, runtime.Version(), norm(signAlgo)).Set(1)
}
