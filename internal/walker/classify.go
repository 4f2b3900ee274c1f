package walker

import (
	"errors"
	"io"
	"os"
	"strings"
)

const (
	sampleLength           = 4096
	printableRatioRequired = 0.7
)

func hasAnySuffix(name string, suffixes []string) bool {
	lowerName := strings.ToLower(name)
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(lowerName, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

// isLikelyText classifies a regular file by suffix, falling back to sampling
// its leading bytes.
func (scanner *Scanner) isLikelyText(path string, name string) bool {
	if hasAnySuffix(name, scanner.options.TextSuffixes) || hasAnySuffix(name, scanner.options.RichDocumentSuffixes) {
		return true
	}
	sample, sampleError := readSample(path)
	if sampleError != nil {
		return false
	}
	return IsMostlyPrintable(sample)
}

// IsMostlyPrintable reports whether more than 70% of sample are printable
// ASCII bytes between ' ' and '}' or line and tab whitespace. An empty sample
// is not printable.
func IsMostlyPrintable(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	printableCount := 0
	for _, sampleByte := range sample {
		if (sampleByte >= ' ' && sampleByte <= '}') || sampleByte == '\n' || sampleByte == '\r' || sampleByte == '\t' {
			printableCount++
		}
	}
	return float64(printableCount)/float64(len(sample)) > printableRatioRequired
}

func readSample(path string) ([]byte, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return nil, openError
	}
	defer fileHandle.Close()

	buffer := make([]byte, sampleLength)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && !errors.Is(readError, io.ErrUnexpectedEOF) && !errors.Is(readError, io.EOF) {
		return nil, readError
	}
	return buffer[:bytesRead], nil
}
