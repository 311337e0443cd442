package application

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	domainexport "petrodata-cloud/internal/export/domain"
	"petrodata-cloud/internal/observability/metrics"
	domainseries "petrodata-cloud/internal/series/domain"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// BlobStore uploads export files and returns their public URL.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ExportResult describes a finished export upload.
type ExportResult struct {
	Key  string
	URL  string
	Rows int
}

// ExportService renders the aggregated series to a file format and uploads
// the result to blob storage.
type ExportService struct {
	records domainseries.Repository
	blobs   BlobStore
	clock   Clock
	logger  *log.Logger
}

// NewExportService constructs the service.
func NewExportService(records domainseries.Repository, blobs BlobStore, clock Clock, logger *log.Logger) (*ExportService, error) {
	if records == nil {
		return nil, errors.New("export service: nil record repository")
	}
	if blobs == nil {
		return nil, errors.New("export service: nil blob store")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ExportService{records: records, blobs: blobs, clock: clock, logger: logger}, nil
}

// Export renders records with periods in [from, to) and uploads the file.
// The format is validated before anything is fetched or uploaded.
func (s *ExportService) Export(ctx context.Context, formatValue string, from, to time.Time) (*ExportResult, error) {
	started := s.clock.Now()
	result, err := s.export(ctx, formatValue, from, to)
	metrics.ObserveExport(formatValue, err == nil, time.Since(started))
	return result, err
}

// ExportAll renders the full history and uploads the file.
func (s *ExportService) ExportAll(ctx context.Context, formatValue string) (*ExportResult, error) {
	return s.Export(ctx, formatValue, time.Time{}, s.clock.Now().AddDate(0, 0, 1))
}

func (s *ExportService) export(ctx context.Context, formatValue string, from, to time.Time) (*ExportResult, error) {
	format, err := domainexport.ParseFormat(formatValue)
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]domainexport.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, domainexport.NewRow(record))
	}

	data, err := encodeRows(format, rows)
	if err != nil {
		return nil, err
	}

	key := newKey(format)
	url, err := s.blobs.Put(ctx, key, format.ContentType(), data)
	if err != nil {
		return nil, err
	}

	s.logger.Printf("export: uploaded key=%s format=%s rows=%d", key, format, len(rows))
	return &ExportResult{Key: key, URL: url, Rows: len(rows)}, nil
}

// newKey builds an object key from an uppercase, dash-less UUID plus the
// format extension.
func newKey(format domainexport.Format) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return id + format.Ext()
}
