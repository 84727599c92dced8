// Package influx writes export run statistics to InfluxDB.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/calcium-format/exporter/internal/config"
	"github.com/calcium-format/exporter/internal/exporter"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
)

// Measurement is the InfluxDB measurement holding one point per export run.
const Measurement = "calcium_export"

// Sink writes run statistics to an InfluxDB bucket, or to a gzipped line
// protocol backup file when the server is unreachable.
type Sink struct {
	Client       influxdb2.Client
	Writer       influxdb2_api.WriteAPIBlocking
	BackupWriter *gzip.Writer
	IsValid      bool
	Logger       zerolog.Logger

	cfg        config.InfluxConfig
	backupFile io.Closer
}

var _ exporter.StatsSink = (*Sink)(nil)

// Connect establishes a connection to InfluxDB. When the server does not
// answer, a backup file is opened instead and the sink stays usable.
func Connect(ctx context.Context, cfg config.InfluxConfig, log zerolog.Logger) (*Sink, error) {
	if !cfg.Enabled {
		return nil, errors.New("influx.enabled is false")
	}

	s := &Sink{Logger: log, cfg: cfg}
	s.Client = influxdb2.NewClient(
		fmt.Sprintf("%s://%s:%s", cfg.Protocol, cfg.Host, cfg.Port),
		cfg.Token,
	)

	// validate client connection health
	running, err := s.Client.Ping(ctx)
	if err != nil || !running {
		s.Logger.Info().Str("backupPath", cfg.BackupPath).
			Msg("Failed to initialize InfluxDB client, writing to backup file")

		file, err := os.OpenFile(cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			s.Client.Close()
			return nil, fmt.Errorf("error creating backup file: %w", err)
		}
		s.backupFile = file
		s.BackupWriter = gzip.NewWriter(file)
		return s, nil
	}

	if err := s.setupOrganizationAndBucket(ctx); err != nil {
		s.Client.Close()
		return nil, err
	}
	s.Writer = s.Client.WriteAPIBlocking(cfg.Org, cfg.Bucket)
	s.IsValid = true
	s.Logger.Info().Str("bucket", cfg.Bucket).Msg("InfluxDB client initialized")
	return s, nil
}

// NewBackupSink creates a sink that only writes line protocol to w.
func NewBackupSink(w io.Writer, log zerolog.Logger) *Sink {
	return &Sink{BackupWriter: gzip.NewWriter(w), Logger: log}
}

func (s *Sink) setupOrganizationAndBucket(ctx context.Context) error {
	orgName := s.cfg.Org

	// ensure org exists
	influxOrg, err := s.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		s.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		influxOrg, err = s.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			s.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return err
		}
	}

	// ensure bucket exists with 90 day retention
	if _, err := s.Client.BucketsAPI().FindBucketByName(ctx, s.cfg.Bucket); err != nil {
		s.Logger.Info().Str("bucket", s.cfg.Bucket).Msg("Bucket not found, creating")

		rule := domain.RetentionRuleTypeExpire
		_, err = s.Client.BucketsAPI().CreateBucketWithName(ctx, influxOrg, s.cfg.Bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: 60 * 60 * 24 * 90, // 90 days
		})
		if err != nil {
			s.Logger.Error().Err(err).Str("bucket", s.cfg.Bucket).Msg("Error creating bucket")
			return err
		}
	}

	return nil
}

// NewPoint builds the point describing one export run.
func NewPoint(r exporter.Result) *influxdb2_write.Point {
	p := influxdb2_write.NewPointWithMeasurement(Measurement).
		AddTag("state", r.State.String()).
		AddTag("skeletons", strings.Join(r.Skeletons, ",")).
		AddField("run", r.RunID).
		AddField("document", r.DocumentPath).
		AddField("skeleton_count", r.Stats.Skeletons).
		AddField("bones", r.Stats.Bones).
		AddField("meshes", r.Stats.Meshes).
		AddField("actions", r.Stats.Actions).
		AddField("curves", r.Stats.Curves).
		AddField("keyframes", r.Stats.Keyframes).
		AddField("errors", r.Stats.Errors).
		AddField("duration_ms", r.Stats.Duration.Milliseconds())

	counts := make(map[string]int)
	for _, e := range r.Errors {
		counts[string(e.Kind)]++
	}
	for kind, n := range counts {
		p.AddField("errors_"+kind, n)
	}

	ts := r.Started
	if ts.IsZero() {
		ts = time.Now()
	}
	return p.SetTime(ts)
}

// WriteStats writes the point of one run.
func (s *Sink) WriteStats(ctx context.Context, r exporter.Result) error {
	point := NewPoint(r)

	if s.IsValid {
		if err := s.Writer.WritePoint(ctx, point); err != nil {
			return fmt.Errorf("error sending data to InfluxDB: %w", err)
		}
		return nil
	}

	if s.BackupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}
	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := s.BackupWriter.Write([]byte(lineProtocol + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// Close flushes the backup file and closes the client.
func (s *Sink) Close() error {
	var errs []error
	if s.BackupWriter != nil {
		errs = append(errs, s.BackupWriter.Close())
	}
	if s.backupFile != nil {
		errs = append(errs, s.backupFile.Close())
	}
	if s.Client != nil {
		s.Client.Close()
	}
	return errors.Join(errs...)
}
