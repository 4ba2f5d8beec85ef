// internal/services/report_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/vms-backend/internal/config"
	"github.com/javajoker/vms-backend/internal/models"
	"github.com/javajoker/vms-backend/internal/utils"
)

const reportContentType = "application/json"

// ReportService exports vendor performance reports to S3, or to a local
// directory when no AWS credentials are configured.
type ReportService struct {
	s3Client *s3.S3
	config   *config.Config
	vendors  *VendorService
}

type ExportResult struct {
	URL         string    `json:"url"`
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	GeneratedAt time.Time `json:"generated_at"`
}

type PerformanceReport struct {
	Vendor      *VendorPerformance             `json:"vendor"`
	History     []models.HistoricalPerformance `json:"history"`
	GeneratedAt time.Time                      `json:"generated_at"`
}

func NewReportService(cfg *config.Config, vendors *VendorService) (*ReportService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Local export for development
		return &ReportService{config: cfg, vendors: vendors}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &ReportService{
		s3Client: s3.New(sess),
		config:   cfg,
		vendors:  vendors,
	}, nil
}

// ExportPerformance writes the vendor's current metrics and full history as
// one JSON document.
func (s *ReportService) ExportPerformance(ctx context.Context, vendorID uint) (*ExportResult, error) {
	perf, err := s.vendors.GetPerformance(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	history, _, err := s.vendors.ListHistory(ctx, vendorID, utils.PaginationParams{})
	if err != nil {
		return nil, err
	}

	report := PerformanceReport{
		Vendor:      perf,
		History:     history,
		GeneratedAt: time.Now().UTC(),
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	key := s.generateKey(perf.VendorCode, report.GeneratedAt)

	var result *ExportResult
	if s.s3Client != nil {
		result, err = s.uploadToS3(ctx, body, key)
	} else {
		result, err = s.writeToLocal(body, key)
	}
	if err != nil {
		return nil, err
	}
	result.GeneratedAt = report.GeneratedAt

	logrus.WithFields(logrus.Fields{
		"vendor_id": vendorID,
		"key":       result.Key,
		"size":      result.Size,
	}).Info("Performance report exported")

	return result, nil
}

func (s *ReportService) uploadToS3(ctx context.Context, body []byte, key string) (*ExportResult, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(reportContentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &ExportResult{
		URL:         s.getS3URL(key),
		Key:         key,
		Size:        int64(len(body)),
		ContentType: reportContentType,
	}, nil
}

func (s *ReportService) writeToLocal(body []byte, key string) (*ExportResult, error) {
	path := filepath.Join(s.config.AWS.LocalExportDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	return &ExportResult{
		URL:         "file://" + filepath.ToSlash(path),
		Key:         key,
		Size:        int64(len(body)),
		ContentType: reportContentType,
	}, nil
}

func (s *ReportService) generateKey(vendorCode string, at time.Time) string {
	safeCode := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, vendorCode)
	filename := fmt.Sprintf("%s_%s_%s.json", safeCode, at.Format("20060102T150405"), uuid.New().String()[:8])
	if s.config.AWS.ReportPrefix != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.ReportPrefix, filename)
	}
	return filename
}

func (s *ReportService) getS3URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}
