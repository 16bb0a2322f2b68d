package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"dbbridge/internal/driver"
)

// excelMaxRows is the hard sheet limit imposed by the xlsx format.
const excelMaxRows = 1048576

// ExcelEncoder implements RowEncoder for Excel (.xlsx) files.
// It uses excelize.StreamWriter for efficient writing of large files.
type ExcelEncoder struct {
	f            *excelize.File
	sw           *excelize.StreamWriter
	w            io.Writer
	sheetName    string
	rowIdx       int
	err          error
	headerLength int
}

// NewExcelEncoder creates a new Excel encoder.
// It initializes a new workbook and specific stream writer for high performance.
func NewExcelEncoder(w io.Writer) *ExcelEncoder {
	f := excelize.NewFile()
	sheetName := "Sheet1"
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return &ExcelEncoder{err: err}
	}

	return &ExcelEncoder{
		f:         f,
		sw:        sw,
		w:         w,
		sheetName: sheetName,
		rowIdx:    1,
	}
}

func (e *ExcelEncoder) WriteHeader(columns []string) error {
	if e.err != nil {
		return e.err
	}

	e.headerLength = len(columns)
	row := make([]interface{}, len(columns))
	for i, col := range columns {
		row[i] = col
	}

	cell, err := excelize.CoordinatesToCellName(1, e.rowIdx)
	if err != nil {
		e.err = err
		return err
	}

	if err := e.sw.SetRow(cell, row); err != nil {
		e.err = err
		return err
	}

	e.rowIdx++
	return nil
}

func (e *ExcelEncoder) WriteRow(values []driver.Value) error {
	if e.err != nil {
		return e.err
	}

	// Refuse the row before anything reaches the stream; a row written past
	// the sheet limit corrupts the workbook.
	if e.rowIdx > excelMaxRows {
		e.err = fmt.Errorf("excel row limit exceeded (%d rows)", excelMaxRows)
		return e.err
	}

	// Excelize StreamWriter requires interface{} slice.
	// Numbers keep their native type so spreadsheet formulas work on them;
	// everything else is rendered as a sanitized string.
	row := make([]interface{}, len(values))
	for i, v := range values {
		switch v.Kind() {
		case driver.KindInteger:
			row[i] = v.Int64()
			continue
		case driver.KindFloat:
			row[i] = v.Float64()
			continue
		case driver.KindBoolean:
			row[i] = v.Bool()
			continue
		}

		s := renderCell(v)
		// renderCell already applies Formula Injection Mitigation.
		row[i] = s
	}

	cell, err := excelize.CoordinatesToCellName(1, e.rowIdx)
	if err != nil {
		e.err = err
		return err
	}

	if err := e.sw.SetRow(cell, row); err != nil {
		e.err = err
		return err
	}

	e.rowIdx++
	return nil
}

func (e *ExcelEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}

	if err := e.sw.Flush(); err != nil {
		e.err = err
		return err
	}

	return e.f.Write(e.w)
}

func (e *ExcelEncoder) Error() error {
	return e.err
}

func (e *ExcelEncoder) Close() error {
	if e.f != nil {
		// We don't usually need to close the file if we are writing to a buffer/stream
		// but let's be safe.
		_ = e.f.Close()
	}
	return nil
}
