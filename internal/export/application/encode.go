package application

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	domainexport "petrodata-cloud/internal/export/domain"
)

func encodeRows(format domainexport.Format, rows []domainexport.Row) ([]byte, error) {
	switch format {
	case domainexport.FormatCSV:
		return encodeCSV(rows)
	case domainexport.FormatXLSX:
		return encodeXLSX(rows)
	case domainexport.FormatPDF:
		return encodePDF(rows)
	default:
		return nil, domainexport.ErrInvalidFormat
	}
}

func encodeCSV(rows []domainexport.Row) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(domainexport.Columns()); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.State,
			strconv.Itoa(row.Day),
			strconv.Itoa(row.Year),
			row.Month,
			row.Period,
			formatPrice(row.AGO),
			formatPrice(row.PMS),
			formatPrice(row.DPK),
			formatPrice(row.LPG),
			row.Region,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeXLSX(rows []domainexport.Row) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "prices"
	f.SetSheetName("Sheet1", sheet)

	for i, column := range domainexport.Columns() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cell, column)
	}
	for i, row := range rows {
		line := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", line), row.State)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", line), row.Day)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", line), row.Year)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", line), row.Month)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", line), row.Period)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", line), row.AGO)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", line), row.PMS)
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", line), row.DPK)
		_ = f.SetCellValue(sheet, fmt.Sprintf("I%d", line), row.LPG)
		_ = f.SetCellValue(sheet, fmt.Sprintf("J%d", line), row.Region)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodePDF(rows []domainexport.Row) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Fuel Price Records")
	pdf.Ln(10)

	widths := []float64{34, 12, 16, 26, 26, 24, 24, 24, 24, 36}
	const lineHeight = 6.0

	pdf.SetFont("Arial", "B", 9)
	for i, column := range domainexport.Columns() {
		pdf.CellFormat(widths[i], lineHeight, column, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	left, _, _, _ := pdf.GetMargins()
	_, pageHeight := pdf.GetPageSize()
	_, _, _, marginBottom := pdf.GetMargins()
	for _, row := range rows {
		cells := []string{
			row.State,
			strconv.Itoa(row.Day),
			strconv.Itoa(row.Year),
			row.Month,
			row.Period,
			formatPrice(row.AGO),
			formatPrice(row.PMS),
			formatPrice(row.DPK),
			formatPrice(row.LPG),
			row.Region,
		}

		// Wrap each cell to its column width; the row is as tall as its
		// tallest cell.
		wrapped := make([][]string, len(cells))
		lines := 1
		for i, text := range cells {
			wrapped[i] = pdf.SplitText(text, widths[i]-2)
			if len(wrapped[i]) > lines {
				lines = len(wrapped[i])
			}
		}
		rowHeight := float64(lines) * lineHeight

		if pdf.GetY()+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
		}
		x, y := left, pdf.GetY()
		for i, cell := range wrapped {
			pdf.Rect(x, y, widths[i], rowHeight, "D")
			for j, line := range cell {
				pdf.SetXY(x+1, y+float64(j)*lineHeight)
				pdf.CellFormat(widths[i]-2, lineHeight, line, "", 0, "L", false, 0, "")
			}
			x += widths[i]
		}
		pdf.SetXY(left, y+rowHeight)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatPrice(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
