package service

import (
	"context"
	"fmt"
	"os"

	"github.com/locvowork/calendar_report/internal/domain"
	"github.com/locvowork/calendar_report/internal/logger"
)

type ReportService interface {
	// Export decodes the calendar at inputPath and writes its report to
	// outputPath. On error outputPath is left untouched.
	Export(ctx context.Context, inputPath, outputPath string) error
}

type reportService struct {
	decoder domain.EventDecoder
	writer  domain.ReportWriter
}

func NewReportService(decoder domain.EventDecoder, writer domain.ReportWriter) ReportService {
	return &reportService{decoder: decoder, writer: writer}
}

func (s *reportService) Export(ctx context.Context, inputPath, outputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open calendar: %w", err)
	}
	defer f.Close()

	events, err := s.decoder.Decode(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to decode calendar %s: %w", inputPath, err)
	}
	logger.InfoLog(ctx, "Loaded %d events from %s", len(events), inputPath)

	if err := s.writer.Write(ctx, events, outputPath); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
