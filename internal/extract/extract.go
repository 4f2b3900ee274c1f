// Package extract turns selected files into plain text, dispatching rich
// document formats to dedicated readers.
package extract

import (
	"fmt"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// DefaultCacheEntries bounds the number of extracted texts kept in memory.
	DefaultCacheEntries = 256

	pdfSuffix  = ".pdf"
	xlsxSuffix = ".xlsx"

	errorStatFormat   = "stat %s: %w"
	errorReadFormat   = "read %s: %w"
	errorDecodeFormat = "decode %s: %w"
	errorCacheFormat  = "create extraction cache: %w"

	logMessageCacheHit = "extraction cache hit"
	logFieldPath       = "path"
)

// Options configures an Extractor.
type Options struct {
	CacheEntries int
}

type cacheKey struct {
	path         string
	size         int64
	modifiedNano int64
}

// Extractor reads file text and caches results keyed by path, size and
// modification time, so a file changed on disk is read again.
type Extractor struct {
	cache  *lru.Cache[cacheKey, string]
	logger *zap.Logger
}

// NewExtractor constructs an Extractor. A non-positive cache size selects
// DefaultCacheEntries.
func NewExtractor(options Options, logger *zap.Logger) (*Extractor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cacheEntries := options.CacheEntries
	if cacheEntries <= 0 {
		cacheEntries = DefaultCacheEntries
	}
	cache, cacheError := lru.New[cacheKey, string](cacheEntries)
	if cacheError != nil {
		return nil, fmt.Errorf(errorCacheFormat, cacheError)
	}
	return &Extractor{cache: cache, logger: logger}, nil
}

// ExtractText returns the plain text of the file at path. PDF and XLSX files
// go through their document readers; anything else is read as text with a
// leading byte order mark honoured.
func (extractor *Extractor) ExtractText(path string) (string, error) {
	fileInfo, statError := os.Stat(path)
	if statError != nil {
		return "", fmt.Errorf(errorStatFormat, path, statError)
	}
	key := cacheKey{path: path, size: fileInfo.Size(), modifiedNano: fileInfo.ModTime().UnixNano()}
	if text, cached := extractor.cache.Get(key); cached {
		extractor.logger.Debug(logMessageCacheHit, zap.String(logFieldPath, path))
		return text, nil
	}

	var text string
	var extractError error
	lowerPath := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lowerPath, pdfSuffix):
		text, extractError = readPDFText(path)
	case strings.HasSuffix(lowerPath, xlsxSuffix):
		text, extractError = readWorkbookText(path)
	default:
		text, extractError = readPlainText(path)
	}
	if extractError != nil {
		return "", extractError
	}
	extractor.cache.Add(key, text)
	return text, nil
}

func readPlainText(path string) (string, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return "", fmt.Errorf(errorReadFormat, path, readError)
	}
	return DecodeText(content, path)
}

// DecodeText converts content to a UTF-8 string. A UTF-8 byte order mark is
// dropped and UTF-16 content with a byte order mark is transcoded.
func DecodeText(content []byte, path string) (string, error) {
	decoded, _, decodeError := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), content)
	if decodeError != nil {
		return "", fmt.Errorf(errorDecodeFormat, path, decodeError)
	}
	return string(decoded), nil
}
