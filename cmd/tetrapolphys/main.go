// Command tetrapolphys drives the TETRAPOL downlink physical-channel core
// against a raw hard-decision bit stream (one byte per bit, value 0 or 1,
// per spec §6) read from a file or stdin, printing each delivered
// multi-block and optionally persisting telemetry and serving Prometheus
// metrics.
package main

import (
	"bufio"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/tetrapol-go/physch/internal/assembler"
	"github.com/tetrapol-go/physch/internal/config"
	"github.com/tetrapol-go/physch/internal/decoder"
	"github.com/tetrapol-go/physch/internal/diag"
	"github.com/tetrapol-go/physch/internal/metrics"
	"github.com/tetrapol-go/physch/internal/phys"
	"github.com/tetrapol-go/physch/internal/telemetry"
)

var (
	configFile    = pflag.StringP("config-file", "c", "", "Optional INI configuration file.")
	scr           = pflag.IntP("scr", "s", decoder.DetectSCR, "Scrambling constant, or -1 for blind detection.")
	scrConfidence = pflag.IntP("scr-confidence", "k", 5, "Passing frames (cumulative, ties included) required to lock a blindly-detected SCR.")
	bufferFrames  = pflag.IntP("buffer-frames", "b", 10, "Framer buffer size, in frames.")
	logLevel      = pflag.StringP("log-level", "l", "info", "Log level: debug, info, warn, error.")
	telemetryOn   = pflag.Bool("telemetry", false, "Persist decode telemetry to a SQLite database.")
	telemetryPath = pflag.String("telemetry-path", "physch.db", "Telemetry database path.")
	metricsOn     = pflag.Bool("metrics", false, "Serve Prometheus metrics.")
	metricsAddr   = pflag.String("metrics-addr", ":9100", "Metrics listen address.")
	inputFile     = pflag.StringP("input", "i", "-", "Input bit-stream file, or - for stdin.")
)

// stdoutConsumer prints each delivered multi-block's payload as hex.
type stdoutConsumer struct{}

func (stdoutConsumer) ProcessTPDU(payload []byte, frameNo int, ok bool) {
	marker := ""
	if !ok {
		marker = " (parity error)"
	}
	fmt.Printf("tpdu frame_no=%d bytes=%d%s %x\n", frameNo, len(payload), marker, payload)
}

// stubRCH discards RCH/PCH frames; a real driver would hand these to an
// RCH/TSDU parser.
type stubRCH struct{}

func (stubRCH) DecodeRCH(assembler.Block) {}

// stubSegmentation is a no-op; a real driver would reset whatever
// higher-layer TSDU reassembly it owns.
type stubSegmentation struct{}

func (stubSegmentation) ResetSegmentation() {}

func main() {
	pflag.Parse()

	cfg := config.New(*configFile)
	if *configFile != "" {
		if err := cfg.Load(); err != nil {
			stdlog.Fatalf("config: %v", err)
		}
	} else {
		cfg.Scr = *scr
		cfg.ScrConfidence = *scrConfidence
		cfg.BufferFrames = *bufferFrames
		cfg.LogLevel = *logLevel
		cfg.TelemetryEnabled = *telemetryOn
		cfg.TelemetryPath = *telemetryPath
		cfg.MetricsEnabled = *metricsOn
		cfg.MetricsAddr = *metricsAddr
	}

	level := log.InfoLevel
	switch cfg.LogLevel {
	case "debug":
		level = log.DebugLevel
	case "warn":
		level = log.WarnLevel
	case "error":
		level = log.ErrorLevel
	}
	diagLog := diag.New(os.Stderr, level)

	var store *telemetry.Store
	if cfg.TelemetryEnabled {
		s, err := telemetry.Open(telemetry.Config{Path: cfg.TelemetryPath}, nil)
		if err != nil {
			stdlog.Fatalf("telemetry: %v", err)
		}
		defer s.Close()
		store = s
	}

	var recorder metrics.Recorder
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg, "cmd")
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			stdlog.Printf("serving metrics on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				stdlog.Printf("metrics server stopped: %v", err)
			}
		}()
	}

	ch := phys.New(phys.Options{
		Consumer:      stdoutConsumer{},
		RCH:           stubRCH{},
		SegReset:      stubSegmentation{},
		Logger:        diagLog,
		Metrics:       recorder,
		Store:         store,
		BufferFrames:  cfg.BufferFrames,
		ScrConfidence: cfg.ScrConfidence,
	})
	defer ch.Destroy()
	ch.SetSCR(cfg.Scr)

	in := os.Stdin
	if *inputFile != "-" {
		f, err := os.Open(*inputFile)
		if err != nil {
			stdlog.Fatalf("open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	if err := run(ch, bufio.NewReader(in)); err != nil && err != io.EOF {
		stdlog.Fatalf("run: %v", err)
	}
}

// run pumps chunks of the hard-decision bit stream through recv/process
// until the input is exhausted, per the single-threaded cooperative model
// of spec §5: recv, then drive process until it asks for more data.
func run(ch *phys.Channel, r *bufio.Reader) error {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			offset := 0
			for offset < n {
				accepted := ch.Recv(buf[offset:n])
				if accepted == 0 {
					for ch.Process() == -1 {
					}
					accepted = ch.Recv(buf[offset:n])
					if accepted == 0 {
						break // buffer still full after a resync attempt; drop the rest of this chunk
					}
				}
				offset += accepted
			}
			for ch.Process() == -1 {
			}
		}
		if err != nil {
			return err
		}
	}
}
