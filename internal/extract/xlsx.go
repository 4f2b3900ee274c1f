package extract

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	sheetHeaderPrefix = "Sheet: "
	cellSeparator     = "\t"

	errorOpenWorkbookFormat = "open workbook %s: %w"
	errorReadSheetFormat    = "read sheet %s of %s: %w"
)

// readWorkbookText lists every sheet under a "Sheet: <name>" line with one
// line per row and every cell followed by a tab. Sheets are separated by a
// blank line.
func readWorkbookText(path string) (string, error) {
	workbook, openError := excelize.OpenFile(path)
	if openError != nil {
		return "", fmt.Errorf(errorOpenWorkbookFormat, path, openError)
	}
	defer workbook.Close()

	var builder strings.Builder
	for _, sheetName := range workbook.GetSheetList() {
		rows, rowsError := workbook.GetRows(sheetName)
		if rowsError != nil {
			return "", fmt.Errorf(errorReadSheetFormat, sheetName, path, rowsError)
		}
		builder.WriteString(sheetHeaderPrefix + sheetName + "\n")
		for _, row := range rows {
			for _, cell := range row {
				builder.WriteString(cell + cellSeparator)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}
	return builder.String(), nil
}
