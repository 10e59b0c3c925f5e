package reports

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

type workbookStyles struct {
	title    int
	header   int
	number   int
	textLeft int
}

func newWorkbookStyles(f *excelize.File) (*workbookStyles, error) {
	title, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	if err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"DCE6F1"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	numFmt := "#,##0"
	number, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
		Alignment:    &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	textLeft, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return nil, err
	}
	return &workbookStyles{title: title, header: header, number: number, textLeft: textLeft}, nil
}

// writeDataSheet writes a header row plus data rows onto a sheet and sizes
// every column to max(content width, header width) plus a small margin.
func writeDataSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		widths[i] = utf8.RuneCountInString(h)
	}
	if len(headers) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, 1)
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		if err := f.SetCellStyle(sheet, first, last, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
			if c < len(widths) {
				if w := utf8.RuneCountInString(fmt.Sprint(value)); w > widths[c] {
					widths[c] = w
				}
			}
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(w+2)); err != nil {
			return err
		}
	}
	return nil
}
