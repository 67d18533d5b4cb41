package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"travel-cms/internal/entities"
	"travel-cms/pkg/types"
)

type ExportServiceInterface interface {
	ExportXLSX(ctx context.Context, entity EntityServiceInterface, w io.Writer) error
}

// ExportService выгружает все записи одного вида в XLSX: первая строка -
// колонки схемы, далее по строке на запись в порядке вставки.
type ExportService struct {
	logger *zap.Logger
}

func NewExportService(logger *zap.Logger) ExportServiceInterface {
	return &ExportService{logger: logger}
}

func (s *ExportService) ExportXLSX(ctx context.Context, entity EntityServiceInterface, w io.Writer) error {
	schema := entity.Schema()
	records, err := entity.List(ctx, types.ListOptions{})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := schema.Table
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("не удалось создать лист: %w", err)
	}

	columns := schema.SelectColumns()
	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("не удалось записать заголовок: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheet, "A1", lastCol+"1", style)

	for i, record := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := recordRow(record, columns)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("не удалось записать строку %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 38)
	if len(columns) > 1 {
		second, _ := excelize.ColumnNumberToName(2)
		_ = f.SetColWidth(sheet, second, lastCol, 25)
	}

	s.logger.Info("Экспорт в XLSX", zap.String("entity", string(schema.Kind)), zap.Int("rows", len(records)))
	return f.Write(w)
}

func recordRow(record entities.Record, columns []string) []interface{} {
	row := make([]interface{}, len(columns))
	for i, col := range columns {
		if v, ok := record[col]; ok && v != nil {
			row[i] = v
		} else {
			row[i] = ""
		}
	}
	return row
}
