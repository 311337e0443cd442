package export

import "errors"

// Format is a supported export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ErrInvalidFormat is returned for unsupported export formats.
var ErrInvalidFormat = errors.New("export: invalid format")

// ParseFormat validates a format string.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatCSV, FormatXLSX, FormatPDF:
		return Format(value), nil
	default:
		return "", ErrInvalidFormat
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}
