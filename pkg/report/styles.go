// Package report renders the engineering deliverables (instrument index,
// IO list, IO summary) as Excel workbooks from the instrument database.
package report

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// column pairs a header caption with its sheet width.
type column struct {
	Name  string
	Width float64
}

const (
	headerFill = "D9D9D9"
	titleRow   = 1
	revRow     = 2
	headerRow  = 4
)

// styleSet holds the style IDs shared by every deliverable sheet.
type styleSet struct {
	title      int
	revision   int
	header     int
	textLeft   int
	textCenter int
	numRight   int
	boldCenter int
	boldRight  int
	note       int
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, s := range sides {
		borders = append(borders, excelize.Border{Type: s, Style: 1, Color: "000000"})
	}
	return borders
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	s := &styleSet{}

	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return nil, errors.Wrap(err, "title style")
	}
	if s.revision, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return nil, errors.Wrap(err, "revision style")
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return nil, errors.Wrap(err, "header style")
	}
	if s.textLeft, err = f.NewStyle(&excelize.Style{
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
	}); err != nil {
		return nil, errors.Wrap(err, "left style")
	}
	if s.textCenter, err = f.NewStyle(&excelize.Style{
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return nil, errors.Wrap(err, "center style")
	}
	if s.numRight, err = f.NewStyle(&excelize.Style{
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
	}); err != nil {
		return nil, errors.Wrap(err, "right style")
	}
	if s.boldCenter, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return nil, errors.Wrap(err, "bold center style")
	}
	if s.boldRight, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
	}); err != nil {
		return nil, errors.Wrap(err, "bold right style")
	}
	if s.note, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Size: 9},
	}); err != nil {
		return nil, errors.Wrap(err, "note style")
	}
	return s, nil
}

// writeBanner writes the merged title and revision rows spanning the full
// column range.
func writeBanner(f *excelize.File, sheet string, lastCol int, title, revision string, styles *styleSet) error {
	end, err := excelize.CoordinatesToCellName(lastCol, titleRow)
	if err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", end); err != nil {
		return errors.Wrap(err, "merge title row")
	}
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", end, styles.title); err != nil {
		return err
	}

	end, err = excelize.CoordinatesToCellName(lastCol, revRow)
	if err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A2", end); err != nil {
		return errors.Wrap(err, "merge revision row")
	}
	if err := f.SetCellValue(sheet, "A2", revision); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A2", end, styles.revision)
}

// writeHeader writes the column captions on headerRow and sets widths.
func writeHeader(f *excelize.File, sheet string, columns []column, styles *styleSet) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Name); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, styles.header); err != nil {
			return err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
			return err
		}
	}
	return nil
}

// freezeHeader locks the banner and header rows while data scrolls.
func freezeHeader(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	})
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if value != nil {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

// floatCell unwraps an optional numeric field, leaving the cell blank when
// the value was never captured.
func floatCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// revisionNumber defaults to issue "A" when the database never recorded one.
func revisionNumber(number string) string {
	if number == "" {
		return "A"
	}
	return number
}
