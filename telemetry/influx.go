package telemetry

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
)

// Measurement names written by InfluxSink
const (
	MeasurementVehicle = "vehicle_state"
	MeasurementWheel   = "wheel_state"
)

// InfluxConfig addresses an InfluxDB v2 bucket
type InfluxConfig struct {
	URL    string `mapstructure:"url"`
	Token  string `mapstructure:"token"`
	Org    string `mapstructure:"org"`
	Bucket string `mapstructure:"bucket"`

	// Every exports one of every N ticks
	Every int `mapstructure:"every"`

	// BackupPath receives gzip line protocol when the server is unreachable
	BackupPath string `mapstructure:"backup_path"`
}

// InfluxSink exports sampled snapshots as points
// Falls back to a gzip line-protocol file when the server does not answer a ping
type InfluxSink struct {
	cfg    InfluxConfig
	log    zerolog.Logger
	client influxdb2.Client
	writer influxdb2_api.WriteAPI

	mu      sync.Mutex
	backup  *gzip.Writer
	file    *os.File
	seen    uint64
	written uint64
	now     func() time.Time
}

// NewInfluxSink creates an unconnected sink, call Connect before use
func NewInfluxSink(cfg InfluxConfig, log zerolog.Logger) *InfluxSink {
	if cfg.Every < 1 {
		cfg.Every = 1
	}
	return &InfluxSink{cfg: cfg, log: log, now: time.Now}
}

// Connect pings the server and creates the write API, or opens the backup file
func (s *InfluxSink) Connect(ctx context.Context) error {
	if s.cfg.URL != "" {
		s.client = influxdb2.NewClientWithOptions(s.cfg.URL, s.cfg.Token,
			influxdb2.DefaultOptions().
				SetBatchSize(500).
				SetFlushInterval(1000))

		running, err := s.client.Ping(ctx)
		if err == nil && running {
			s.writer = s.client.WriteAPI(s.cfg.Org, s.cfg.Bucket)
			go s.drainErrors(s.writer.Errors())
			s.log.Info().Str("url", s.cfg.URL).Str("bucket", s.cfg.Bucket).Msg("InfluxDB telemetry sink connected")
			return nil
		}
		s.log.Warn().Err(err).Str("url", s.cfg.URL).Msg("InfluxDB unreachable, using backup file")
		s.client.Close()
		s.client = nil
	}

	if s.cfg.BackupPath == "" {
		return errors.New("influx sink: server unreachable and no backup path configured")
	}
	file, err := os.OpenFile(s.cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating telemetry backup file: %w", err)
	}
	s.file = file
	s.backup = gzip.NewWriter(file)
	return nil
}

func (s *InfluxSink) drainErrors(errs <-chan error) {
	for err := range errs {
		s.log.Error().Err(err).Str("bucket", s.cfg.Bucket).Msg("Error sending telemetry to InfluxDB")
	}
}

// Observe implements Observer, sampling one of every Every snapshots
func (s *InfluxSink) Observe(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen++
	if (s.seen-1)%uint64(s.cfg.Every) != 0 {
		return
	}

	ts := s.now()
	points := append([]*influxdb2_write.Point{VehiclePoint(snap, ts)}, WheelPoints(snap, ts)...)
	for _, p := range points {
		if err := s.writePoint(p); err != nil {
			s.log.Warn().Err(err).Msg("Dropping telemetry point")
			return
		}
	}
	s.written++
}

func (s *InfluxSink) writePoint(p *influxdb2_write.Point) error {
	switch {
	case s.writer != nil:
		s.writer.WritePoint(p)
		return nil
	case s.backup != nil:
		line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
		if _, err := s.backup.Write([]byte(line)); err != nil {
			return fmt.Errorf("writing telemetry backup: %w", err)
		}
		return nil
	default:
		return errors.New("influx sink not connected")
	}
}

// Written returns how many snapshots were exported
func (s *InfluxSink) Written() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Close flushes pending points and releases the client or backup file
func (s *InfluxSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.writer != nil {
		s.writer.Flush()
		s.writer = nil
	}
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	if s.backup != nil {
		errs = append(errs, s.backup.Close())
		s.backup = nil
	}
	if s.file != nil {
		errs = append(errs, s.file.Close())
		s.file = nil
	}
	return errors.Join(errs...)
}

// VehiclePoint converts a snapshot's chassis and drivetrain state to a point
func VehiclePoint(s Snapshot, ts time.Time) *influxdb2_write.Point {
	return influxdb2.NewPoint(MeasurementVehicle,
		map[string]string{"vehicle": s.Vehicle},
		map[string]any{
			"tick":          int64(s.Tick),
			"x":             s.Position.X(),
			"y":             s.Position.Y(),
			"z":             s.Position.Z(),
			"speed":         s.ForwardSpeed,
			"display_speed": s.DisplaySpeed,
			"gear":          int64(s.Gear),
			"rpm":           s.RPM,
			"throttle":      s.Throttle,
			"steer":         s.Steer,
			"brake":         s.Brake,
			"handbrake":     s.Handbrake,
			"grounded":      int64(s.GroundedWheels()),
		},
		ts)
}

// WheelPoints converts each wheel of a snapshot to a point tagged by wheel name
func WheelPoints(s Snapshot, ts time.Time) []*influxdb2_write.Point {
	points := make([]*influxdb2_write.Point, 0, len(s.Wheels))
	for _, w := range s.Wheels {
		points = append(points, influxdb2.NewPoint(MeasurementWheel,
			map[string]string{"vehicle": s.Vehicle, "wheel": w.Name},
			map[string]any{
				"grounded":     w.Grounded,
				"distance":     w.Distance,
				"normal_force": w.NormalForce,
				"lateral":      w.LateralForce,
				"longitudinal": w.LongitudinalForce,
				"slip":         w.SlipVelocity,
				"steer":        w.SteerAngle,
				"degraded":     w.Degraded,
			},
			ts))
	}
	return points
}
