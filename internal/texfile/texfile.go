// Package texfile provides encoding-tolerant reading of LaTeX project files.
// Sources fetched from the wild are not always clean UTF-8: BOM prefixes,
// UTF-16 exports, and GBK-encoded files all occur.
package texfile

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/jiangsn/latex-clean/internal/logger"
)

// Encoding names returned by DetectEncoding
const (
	EncodingUTF8    = "UTF-8"
	EncodingUTF8BOM = "UTF-8-BOM"
	EncodingUTF16LE = "UTF-16LE"
	EncodingUTF16BE = "UTF-16BE"
	EncodingGBK     = "GBK"
	EncodingUnknown = "UNKNOWN"
)

// DetectEncoding detects the encoding of raw file data.
func DetectEncoding(data []byte) string {
	// Check for BOM markers
	if len(data) >= 3 && bytes.Equal(data[:3], []byte{0xEF, 0xBB, 0xBF}) {
		return EncodingUTF8BOM
	}
	if len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFF, 0xFE}) {
		return EncodingUTF16LE
	}
	if len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFE, 0xFF}) {
		return EncodingUTF16BE
	}

	if utf8.Valid(data) {
		return EncodingUTF8
	}

	if isValidGBK(data) {
		return EncodingGBK
	}

	return EncodingUnknown
}

// isValidGBK checks if data is valid GBK encoding
func isValidGBK(data []byte) bool {
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	if err != nil {
		return false
	}
	return utf8.Valid(decoded)
}

// Decode converts raw file data to a UTF-8 string based on the detected
// encoding. Unknown encodings fail with an error so the caller can degrade
// with a placeholder instead of splicing garbage into the document.
func Decode(data []byte) (string, error) {
	enc := DetectEncoding(data)

	switch enc {
	case EncodingUTF8:
		return string(data), nil
	case EncodingUTF8BOM:
		return string(data[3:]), nil
	case EncodingUTF16LE:
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode UTF-16LE: %w", err)
		}
		return string(decoded), nil
	case EncodingUTF16BE:
		decoded, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode UTF-16BE: %w", err)
		}
		return string(decoded), nil
	case EncodingGBK:
		decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode GBK: %w", err)
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("unsupported encoding: %s", enc)
	}
}

// ReadFile reads a file and returns its content as a UTF-8 string,
// converting from the detected encoding when necessary.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	content, err := Decode(data)
	if err != nil {
		logger.Warn("file is not clean UTF-8",
			logger.String("path", path),
			logger.Err(err))
		return "", err
	}
	return content, nil
}
