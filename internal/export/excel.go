// Package export renders the weekly hours as an Excel workbook.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"kiosk/internal/hours"
)

const (
	SheetHours     = "Öffnungszeiten"
	SheetIntervals = "Intervalle"

	// ContentType is the MIME type of the produced workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Workbook writes sheets row by row.
type Workbook struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

func NewWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile()}
}

// AddSheet adds a sheet and makes it current. The first call renames the default sheet.
func (w *Workbook) AddSheet(name string) error {
	// Excel limit
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}

	if w.currentSheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

// WriteHeader writes bold column headers.
func (w *Workbook) WriteHeader(columns ...string) error {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	if err := w.WriteRow(row...); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		start, _ := excelize.CoordinatesToCellName(1, w.currentRow-1)
		end, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow-1)
		_ = w.file.SetCellStyle(w.currentSheet, start, end, style)
	}
	return nil
}

func (w *Workbook) WriteRow(values ...any) error {
	if w.currentSheet == "" {
		return errors.New("no active sheet")
	}
	cell, err := excelize.CoordinatesToCellName(1, w.currentRow)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.currentSheet, cell, &values); err != nil {
		return err
	}
	w.currentRow++
	return nil
}

func (w *Workbook) Save(out io.Writer) error {
	return w.file.Write(out)
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// WriteHours exports the display table and the parsed intervals of ev.
// today marks the highlighted row; pass -1 for none.
func WriteHours(out io.Writer, ev *hours.Evaluator, today int) error {
	wb := NewWorkbook()
	defer wb.Close()

	if err := wb.AddSheet(SheetHours); err != nil {
		return err
	}
	if err := wb.WriteHeader("Tag", "Zeiten", "Heute"); err != nil {
		return err
	}
	for _, row := range ev.Table(today) {
		values := []any{row.Day, row.Text}
		if row.Today {
			values = append(values, "✓")
		}
		if err := wb.WriteRow(values...); err != nil {
			return fmt.Errorf("write hours row %s: %w", row.Day, err)
		}
	}

	if err := wb.AddSheet(SheetIntervals); err != nil {
		return err
	}
	if err := wb.WriteHeader("Tag", "Beginn", "Ende", "Minute von", "Minute bis"); err != nil {
		return err
	}
	schedule := ev.Schedule()
	for day, intervals := range schedule {
		for _, iv := range intervals.Valid() {
			s, e, _ := iv.Bounds()
			if err := wb.WriteRow(hours.DayLabels[day], strings.TrimSpace(iv.Start), strings.TrimSpace(iv.End), s, e); err != nil {
				return fmt.Errorf("write interval row: %w", err)
			}
		}
	}

	return wb.Save(out)
}
