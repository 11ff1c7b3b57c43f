// Package export renders reservation reports as xlsx and csv files.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"fasilitas/internal/domain"
	"fasilitas/internal/interval"
	"fasilitas/internal/models"
)

const sheetName = "Peminjaman"

var reportHeaders = []string{
	"Jenis", "Nama Fasilitas", "Peminjam", "Tanggal Mulai", "Tanggal Selesai",
	"Jam Mulai", "Jam Selesai", "Tujuan", "Keperluan", "Status",
}

// Exporter builds the full reservation report across all kinds, including
// cancelled rows, and writes it to the configured directory.
type Exporter struct {
	store  domain.Store
	path   string
	logger *zerolog.Logger
}

func NewExporter(store domain.Store, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{store: store, path: path, logger: logger}
}

// BuildRecords collects all reservations of every kind, newest first within
// each kind, room then asset then vehicle.
func (e *Exporter) BuildRecords(ctx context.Context) ([]models.Record, error) {
	var records []models.Record
	for _, kind := range models.Kinds() {
		kindRecords, err := e.store.ListReservations(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("list %s reservations: %w", kind, err)
		}
		records = append(records, kindRecords...)
	}
	return records, nil
}

// DailyRecords returns the records whose extent covers the given day.
func (e *Exporter) DailyRecords(ctx context.Context, day time.Time) ([]models.Record, error) {
	all, err := e.BuildRecords(ctx)
	if err != nil {
		return nil, err
	}
	var daily []models.Record
	for _, rec := range all {
		if interval.DatesOverlap(rec.StartDate, rec.EndDate, day, day) {
			daily = append(daily, rec)
		}
	}
	return daily, nil
}

// ExportAll rebuilds both report files and returns their paths.
func (e *Exporter) ExportAll(ctx context.Context) (xlsxPath, csvPath string, err error) {
	records, err := e.BuildRecords(ctx)
	if err != nil {
		return "", "", err
	}
	xlsxPath, err = e.WriteXLSX(records)
	if err != nil {
		return "", "", err
	}
	csvPath, err = e.WriteCSV(records)
	if err != nil {
		return "", "", err
	}
	return xlsxPath, csvPath, nil
}

// WriteXLSX writes the records to a timestamped xlsx file.
func (e *Exporter) WriteXLSX(records []models.Record) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, rec := range records {
		row := i + 2
		for col, value := range recordRow(&rec) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "C", 22)
	_ = f.SetColWidth(sheetName, "D", "G", 14)
	_ = f.SetColWidth(sheetName, "H", "I", 30)
	_ = f.SetColWidth(sheetName, "J", "J", 12)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("peminjaman_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save xlsx: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("records", len(records)).Msg("xlsx report written")
	return filePath, nil
}

// WriteCSV writes the records to a timestamped csv file with the same
// columns as the xlsx report.
func (e *Exporter) WriteCSV(records []models.Record) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	fileName := fmt.Sprintf("peminjaman_%s.csv", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)
	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(reportHeaders); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for i := range records {
		if err := w.Write(recordRow(&records[i])); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("records", len(records)).Msg("csv report written")
	return filePath, nil
}

func recordRow(rec *models.Record) []string {
	name := rec.RequesterName
	if name == "" {
		name = rec.AccountName
	}
	destination := rec.Destination
	if rec.Kind != models.KindVehicle {
		destination = ""
	}
	return []string{
		rec.Kind.Label(),
		rec.ResourceName,
		name,
		interval.FormatDate(rec.StartDate),
		interval.FormatDate(rec.EndDate),
		rec.StartTime,
		rec.EndTime,
		destination,
		rec.Purpose,
		rec.Status,
	}
}
