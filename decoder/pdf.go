package decoder

import (
	"io"
	"log"
	"strings"

	"github.com/dslipak/pdf"
)

// DecodePDFRows extracts text rows from a PDF statement, one string per
// visual row, cells joined by single spaces. Pages that fail to render are
// logged and skipped.
func DecodePDFRows(r io.ReaderAt, size int64) ([]string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	extracted := make([]string, 0, numPages*100)

	for no := 1; no <= numPages; no++ {
		page := reader.Page(no)
		rows, err := page.GetTextByRow()
		if err != nil {
			log.Printf("Warning: error getting text from page %d: %v", no, err)
			continue
		}

		for _, row := range rows {
			var builder strings.Builder
			for i, text := range row.Content {
				builder.WriteString(text.S)
				if i < len(row.Content)-1 {
					builder.WriteByte(' ')
				}
			}
			if builder.Len() > 0 {
				extracted = append(extracted, builder.String())
			}
		}
	}

	return extracted, nil
}
