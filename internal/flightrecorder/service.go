// Package flightrecorder keeps a rolling execution trace in memory and writes it to disk when a request is slow.
package flightrecorder

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync/atomic"
	"time"

	"github.com/myrjola/fitplan/internal/errors"
)

const (
	defaultMinAge   = 2 * time.Minute
	defaultMaxBytes = 32 * 1024 * 1024 // 32MB
	defaultCooldown = 30 * time.Minute
)

var (
	ErrLoggerRequired    = errors.NewSentinel("logger is required")
	ErrDirectoryRequired = errors.NewSentinel("traces directory is required")
	ErrNotDirectory      = errors.NewSentinel("traces path is not a directory")
)

// Service manages the flight recorder and the trace snapshots of slow requests.
type Service struct {
	logger          *slog.Logger
	flightRecorder  *trace.FlightRecorder
	tracesDirectory string
	minAge          time.Duration
	maxBytes        uint64
	cooldown        time.Duration
	lastCapture     atomic.Int64 // Unix nanoseconds of the last capture.
}

// Config configures the flight recorder service. Zero durations and sizes use defaults.
type Config struct {
	Logger          *slog.Logger
	MinAge          time.Duration // Minimum age of trace events kept in memory.
	MaxBytes        uint64        // Maximum size of the in-memory trace buffer.
	Cooldown        time.Duration // Minimum time between two snapshots.
	TracesDirectory string        // Directory where trace files are written.
}

// New creates a new flight recorder service. The traces directory is created when missing.
func New(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		return nil, ErrLoggerRequired
	}
	if cfg.TracesDirectory == "" {
		return nil, ErrDirectoryRequired
	}

	if stat, err := os.Stat(cfg.TracesDirectory); err != nil {
		if err = os.MkdirAll(cfg.TracesDirectory, 0o700); err != nil { //nolint:mnd // owner only
			return nil, errors.Wrap(err, "create traces directory", slog.String("dir", cfg.TracesDirectory))
		}
	} else if !stat.IsDir() {
		return nil, errors.Wrap(ErrNotDirectory, "check traces directory", slog.String("dir", cfg.TracesDirectory))
	}

	s := &Service{
		logger:          cfg.Logger,
		flightRecorder:  nil,
		tracesDirectory: cfg.TracesDirectory,
		minAge:          cmp.Or(cfg.MinAge, defaultMinAge),
		maxBytes:        cmp.Or(cfg.MaxBytes, defaultMaxBytes),
		cooldown:        cmp.Or(cfg.Cooldown, defaultCooldown),
		lastCapture:     atomic.Int64{},
	}
	s.flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{
		MinAge:   s.minAge,
		MaxBytes: s.maxBytes,
	})
	return s, nil
}

// Start begins flight recording.
func (s *Service) Start(ctx context.Context) error {
	if err := s.flightRecorder.Start(); err != nil {
		return errors.Wrap(err, "start flight recorder")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.Duration("min_age", s.minAge),
		slog.Uint64("max_bytes", s.maxBytes),
		slog.Duration("cooldown", s.cooldown),
		slog.String("dir", s.tracesDirectory))

	return nil
}

// Stop ends flight recording.
func (s *Service) Stop(ctx context.Context) {
	s.flightRecorder.Stop()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// CaptureSlowRequestTrace writes the recorded trace window to a file. Captures within the cooldown of the previous one
// are skipped.
func (s *Service) CaptureSlowRequestTrace(ctx context.Context, duration time.Duration) {
	now := time.Now()
	last := s.lastCapture.Load()

	if last > 0 && now.Sub(time.Unix(0, last)) < s.cooldown {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture due to cooldown",
			slog.Time("last_capture", time.Unix(0, last)),
			slog.Duration("remaining_cooldown", s.cooldown-now.Sub(time.Unix(0, last))))
		return
	}
	if !s.lastCapture.CompareAndSwap(last, now.UnixNano()) {
		// Another request is capturing.
		return
	}

	filename := fmt.Sprintf("slow-request-%s.trace", now.UTC().Format("20060102-150405.000"))
	fPath := filepath.Join(s.tracesDirectory, filename)
	written, err := s.writeTrace(fPath)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to capture trace", errors.SlogError(err))
		return
	}

	s.logger.LogAttrs(ctx, slog.LevelWarn, "captured slow request trace",
		slog.String("file", fPath),
		slog.Int64("bytes", written),
		slog.Duration("duration", duration))
}

func (s *Service) writeTrace(fPath string) (_ int64, err error) {
	file, err := os.Create(fPath)
	if err != nil {
		return 0, errors.Wrap(err, "create trace file", slog.String("file", fPath))
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "close trace file", slog.String("file", fPath))
		}
	}()

	written, err := s.flightRecorder.WriteTo(file)
	if err != nil {
		return written, errors.Wrap(err, "write trace", slog.String("file", fPath))
	}
	return written, nil
}
