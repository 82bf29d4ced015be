// Package xlsx appends analysis results to an Excel workbook.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ResultWriter = (*Writer)(nil)

// SheetName is the worksheet results are written to.
const SheetName = "Resultados"

// Fixed leading columns of every row.
var fixedColumns = []string{"id", "name", "IA_model"}

// Writer appends one row per result to an XLSX file, creating the file and
// its header row on first use.
type Writer struct {
	mu   sync.Mutex
	path string
}

// NewWriter creates a writer for path. Nothing is written until Append.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the workbook location.
func (w *Writer) Path() string {
	return w.path
}

// Append writes results below the existing rows. The id column holds the
// data row number, starting at 1. Questions without an answer get "-".
func (w *Writer) Append(ctx context.Context, set domain.QuestionSet, results ...domain.Result) error {
	if len(results) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return fmt.Errorf("read %s: %w", SheetName, err)
	}

	header := Header(set)
	if len(rows) == 0 {
		if err := setRow(f, 1, toCells(header)); err != nil {
			return err
		}
		rows = [][]string{header}
	} else if !sameHeader(rows[0], header) {
		return fmt.Errorf("%w: %s has a different question set; use another output file",
			domain.ErrInvalidInput, w.path)
	}

	next := len(rows) + 1
	for _, r := range results {
		if err := setRow(f, next, toCells(Row(next-1, set, r))); err != nil {
			return err
		}
		next++
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	return nil
}

// Header returns the column titles for set.
func Header(set domain.QuestionSet) []string {
	h := make([]string, 0, len(fixedColumns)+set.Len())
	h = append(h, fixedColumns...)
	return append(h, set.Texts()...)
}

// Row returns the cells of one result in set order.
func Row(id int, set domain.QuestionSet, r domain.Result) []string {
	byIndex := make(map[int]string, len(r.Answers))
	for _, a := range r.Answers {
		byIndex[a.Index] = a.Text
	}

	row := make([]string, 0, len(fixedColumns)+set.Len())
	row = append(row, strconv.Itoa(id), r.DocumentName, r.ModelID)
	for _, q := range set.Questions {
		text, ok := byIndex[q.Index]
		if !ok || text == "" {
			text = domain.NoAnswer
		}
		row = append(row, text)
	}
	return row
}

func (w *Writer) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(w.path)
	switch {
	case err == nil:
		if idx, _ := f.GetSheetIndex(SheetName); idx < 0 {
			if _, err := f.NewSheet(SheetName); err != nil {
				f.Close()
				return nil, fmt.Errorf("add sheet: %w", err)
			}
		}
		return f, nil
	case errors.Is(err, fs.ErrNotExist):
		return w.create()
	default:
		return nil, fmt.Errorf("open %s: %w", w.path, err)
	}
}

func (w *Writer) create() (*excelize.File, error) {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
	}

	f := excelize.NewFile()
	idx, err := f.NewSheet(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func sameHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
