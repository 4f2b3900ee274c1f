package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

const (
	errorOpenPDFFormat = "open pdf %s: %w"
	errorReadPDFFormat = "read pdf text %s: %w"
)

func readPDFText(path string) (string, error) {
	fileHandle, reader, openError := pdf.Open(path)
	if openError != nil {
		return "", fmt.Errorf(errorOpenPDFFormat, path, openError)
	}
	defer fileHandle.Close()

	plainText, plainTextError := reader.GetPlainText()
	if plainTextError != nil {
		return "", fmt.Errorf(errorReadPDFFormat, path, plainTextError)
	}
	var buffer bytes.Buffer
	if _, copyError := buffer.ReadFrom(plainText); copyError != nil {
		return "", fmt.Errorf(errorReadPDFFormat, path, copyError)
	}
	return buffer.String(), nil
}
