// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheet

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/site-resolver/pkg/types"
)

const defaultSheetName = "Sheet1"

// readXLSX returns the formatted text of every cell and, in parallel, the
// typed form of the numeric ones.
func readXLSX(path, sheetName string) ([][]string, [][]types.Cell, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %q: %w", sheetName, err)
	}
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %q: %w", sheetName, err)
	}

	cells := make([][]types.Cell, len(rows))
	for r := range rows {
		cells[r] = make([]types.Cell, len(rows[r]))
		if r >= len(raw) {
			continue
		}
		for c := range rows[r] {
			if c >= len(raw[r]) || raw[r][c] == "" {
				continue
			}
			cell, err := numericCell(f, sheetName, c+1, r+1, raw[r][c])
			if err != nil {
				return nil, nil, err
			}
			cells[r][c] = cell
		}
	}
	return rows, cells, nil
}

// numericCell inspects one cell and returns its typed form when it holds a
// number. Text, boolean, and error cells come back as the zero Cell.
func numericCell(f *excelize.File, sheetName string, col, row int, raw string) (types.Cell, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return types.Cell{}, err
	}
	typ, err := f.GetCellType(sheetName, name)
	if err != nil {
		return types.Cell{}, fmt.Errorf("reading type of %s: %w", name, err)
	}
	if typ != excelize.CellTypeUnset && typ != excelize.CellTypeNumber {
		return types.Cell{}, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return types.Cell{}, nil
	}

	cell := types.Cell{Numeric: true, Number: n}
	styleID, err := f.GetCellStyle(sheetName, name)
	if err != nil || styleID == 0 {
		return cell, nil
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		return cell, nil
	}
	cell.NumFmt = style.NumFmt
	if style.CustomNumFmt != nil {
		cell.CustomNumFmt = *style.CustomNumFmt
	}
	return cell, nil
}

func writeXLSX(w io.Writer, sheetName string, t *types.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = defaultSheetName
	}
	if sheetName != defaultSheetName {
		if err := f.SetSheetName(defaultSheetName, sheetName); err != nil {
			return fmt.Errorf("naming sheet: %w", err)
		}
	}

	header := t.Header()
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	styles := make(map[types.Cell]int)
	for i := range t.Rows {
		rowNum := i + 2
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}

		rec := t.Record(i)
		values := make([]any, len(rec))
		for c, v := range rec {
			values[c] = v
		}
		cells := t.Rows[i].Cells
		for c := range cells {
			if c < len(values) && cells[c].Numeric {
				values[c] = cells[c].Number
			}
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", rowNum, err)
		}

		for c := range cells {
			if c >= len(values) || !cells[c].Numeric {
				continue
			}
			if cells[c].NumFmt == 0 && cells[c].CustomNumFmt == "" {
				continue
			}
			if err := applyNumFmt(f, sheetName, c+1, rowNum, cells[c], styles); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("encoding workbook: %w", err)
	}
	return nil
}

// applyNumFmt gives the cell the number format it had in the input. Styles
// are shared between cells with the same format.
func applyNumFmt(f *excelize.File, sheetName string, col, row int, cell types.Cell, styles map[types.Cell]int) error {
	key := types.Cell{NumFmt: cell.NumFmt, CustomNumFmt: cell.CustomNumFmt}
	id, ok := styles[key]
	if !ok {
		style := &excelize.Style{NumFmt: cell.NumFmt}
		if cell.CustomNumFmt != "" {
			custom := cell.CustomNumFmt
			style.CustomNumFmt = &custom
		}
		var err error
		id, err = f.NewStyle(style)
		if err != nil {
			return fmt.Errorf("creating number format: %w", err)
		}
		styles[key] = id
	}

	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, name, name, id); err != nil {
		return fmt.Errorf("styling %s: %w", name, err)
	}
	return nil
}
