package metrics

import (
	"fmt"
	"net"
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paul-weiss/zkp/log"
)

var (
	// PrivateMetrics about the internal world (go process, proof runs)
	PrivateMetrics = prometheus.NewRegistry()

	// SessionCounter counts finished proof sessions by verdict.
	SessionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_counter",
		Help: "Number of proof sessions run, partitioned by verdict",
	}, []string{"verdict"})

	// ChallengeCounter counts challenges by how they were produced.
	ChallengeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "challenge_counter",
		Help: "Number of challenges issued, interactive or derived",
	}, []string{"mode"})

	// VerifyLatency how long checking the verification equation takes
	VerifyLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "verify_duration",
		Help:    "histogram of verification latencies",
		Buckets: prometheus.DefBuckets,
	})

	// ParamErrorCounter counts parameter sets failing validation.
	ParamErrorCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "param_validation_failures",
		Help: "Number of parameter sets that failed validation",
	})

	// ReplayCounter counts transcripts refused because they were seen before.
	ReplayCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "transcript_replays",
		Help: "Number of transcripts refused by the replay guard",
	})

	metricsBound = false
)

func bindMetrics() {
	if metricsBound {
		return
	}
	metricsBound = true

	// The private go-level metrics live in private.
	PrivateMetrics.Register(prometheus.NewGoCollector())
	PrivateMetrics.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	proof := []prometheus.Collector{
		SessionCounter,
		ChallengeCounter,
		VerifyLatency,
		ParamErrorCounter,
		ReplayCounter,
	}
	for _, c := range proof {
		PrivateMetrics.Register(c)
	}
}

// Start starts a prometheus metrics server with debug endpoints.
func Start(metricsBind string, pprof http.Handler) net.Listener {
	log.DefaultLogger().Debugw("metrics listener starting", "at", metricsBind)
	bindMetrics()

	l, err := net.Listen("tcp", metricsBind)
	if err != nil {
		log.DefaultLogger().Warnw("metrics listen failed", "err", err)
		return nil
	}
	s := http.Server{Addr: l.Addr().String()}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(PrivateMetrics, promhttp.HandlerOpts{Registry: PrivateMetrics}))

	if pprof != nil {
		mux.Handle("/debug/pprof", pprof)
	}

	mux.HandleFunc("/debug/gc", func(w http.ResponseWriter, req *http.Request) {
		runtime.GC()
		fmt.Fprintf(w, "GC run complete")
	})
	s.Handler = mux
	go func() {
		log.DefaultLogger().Warnw("metrics listen finished", "err", s.Serve(l))
	}()
	return l
}
