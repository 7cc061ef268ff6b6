// Package metrics exposes the physical-channel core's counters and
// gauges as Prometheus collectors (client_golang), behind a small
// Recorder interface so the core never depends on Prometheus directly.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives one event per pipeline milestone. A nil Recorder
// field on the caller's side should be checked before use; NopRecorder is
// provided for callers that want a concrete no-op instead.
type Recorder interface {
	SyncAcquired()
	SyncLost()
	FrameDecoded(scr int)
	FrameDecodeFailed()
	FrameDecodeAmbiguous()
	MultiBlockEmitted(blocks int, ok bool)
	RCHFrame()
}

// PrometheusRecorder implements Recorder with client_golang collectors
// registered against a caller-supplied registry.
type PrometheusRecorder struct {
	syncAcquired   prometheus.Counter
	syncLost       prometheus.Counter
	framesDecoded  *prometheus.CounterVec
	decodeFailed   prometheus.Counter
	decodeAmbig    prometheus.Counter
	multiBlocks    *prometheus.CounterVec
	multiBlockLen  prometheus.Histogram
	rchFrames      prometheus.Counter
}

// NewPrometheusRecorder creates and registers the core's collectors
// against reg, namespaced "tetrapol_physch". channel labels every metric
// so multiple PhysCh instances in one process stay distinguishable.
func NewPrometheusRecorder(reg prometheus.Registerer, channel string) *PrometheusRecorder {
	constLabels := prometheus.Labels{"channel": channel}

	r := &PrometheusRecorder{
		syncAcquired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tetrapol_physch",
			Name:        "sync_acquired_total",
			Help:        "Number of times frame synchronisation was acquired.",
			ConstLabels: constLabels,
		}),
		syncLost: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tetrapol_physch",
			Name:        "sync_lost_total",
			Help:        "Number of times frame synchronisation was lost.",
			ConstLabels: constLabels,
		}),
		framesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "tetrapol_physch",
			Name:        "frames_decoded_total",
			Help:        "Number of frames successfully decoded, labeled by scrambling constant.",
			ConstLabels: constLabels,
		}, []string{"scr"}),
		decodeFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tetrapol_physch",
			Name:        "frame_decode_failed_total",
			Help:        "Number of frames for which no scrambling constant produced a valid decode.",
			ConstLabels: constLabels,
		}),
		decodeAmbig: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tetrapol_physch",
			Name:        "frame_decode_ambiguous_total",
			Help:        "Number of frames for which more than one scrambling constant passed the gate.",
			ConstLabels: constLabels,
		}),
		multiBlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "tetrapol_physch",
			Name:        "multiblocks_total",
			Help:        "Number of multi-blocks delivered to the TPDU consumer, labeled by parity outcome.",
			ConstLabels: constLabels,
		}, []string{"parity"}),
		multiBlockLen: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "tetrapol_physch",
			Name:        "multiblock_length_blocks",
			Help:        "Number of data blocks in each delivered multi-block.",
			ConstLabels: constLabels,
			Buckets:     []float64{1, 2, 3, 4, 5, 6, 7, 8},
		}),
		rchFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tetrapol_physch",
			Name:        "rch_frames_total",
			Help:        "Number of frames diverted to the RCH/PCH decoder.",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(r.syncAcquired, r.syncLost, r.framesDecoded, r.decodeFailed,
		r.decodeAmbig, r.multiBlocks, r.multiBlockLen, r.rchFrames)
	return r
}

func (r *PrometheusRecorder) SyncAcquired()      { r.syncAcquired.Inc() }
func (r *PrometheusRecorder) SyncLost()          { r.syncLost.Inc() }
func (r *PrometheusRecorder) FrameDecodeFailed() { r.decodeFailed.Inc() }
func (r *PrometheusRecorder) FrameDecodeAmbiguous() { r.decodeAmbig.Inc() }
func (r *PrometheusRecorder) RCHFrame()          { r.rchFrames.Inc() }

func (r *PrometheusRecorder) FrameDecoded(scr int) {
	r.framesDecoded.WithLabelValues(scrLabel(scr)).Inc()
}

func (r *PrometheusRecorder) MultiBlockEmitted(blocks int, ok bool) {
	label := "ok"
	if !ok {
		label = "parity_error"
	}
	r.multiBlocks.WithLabelValues(label).Inc()
	r.multiBlockLen.Observe(float64(blocks))
}

func scrLabel(scr int) string {
	if scr < 0 {
		return "unknown"
	}
	return strconv.Itoa(scr)
}

// NopRecorder implements Recorder by discarding every event.
type NopRecorder struct{}

func (NopRecorder) SyncAcquired()             {}
func (NopRecorder) SyncLost()                 {}
func (NopRecorder) FrameDecoded(int)          {}
func (NopRecorder) FrameDecodeFailed()        {}
func (NopRecorder) FrameDecodeAmbiguous()     {}
func (NopRecorder) MultiBlockEmitted(int, bool) {}
func (NopRecorder) RCHFrame()                 {}
