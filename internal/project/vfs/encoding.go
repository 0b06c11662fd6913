package vfs

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding represents a character encoding.
type Encoding string

const (
	// EncodingUTF8 is UTF-8 encoding (default).
	EncodingUTF8 Encoding = "utf-8"

	// EncodingUTF8BOM is UTF-8 encoding with BOM.
	EncodingUTF8BOM Encoding = "utf-8-bom"

	// EncodingUTF16LE is UTF-16 Little Endian with BOM.
	EncodingUTF16LE Encoding = "utf-16le"

	// EncodingUTF16BE is UTF-16 Big Endian with BOM.
	EncodingUTF16BE Encoding = "utf-16be"

	// EncodingLatin1 is ISO-8859-1 (Latin-1).
	EncodingLatin1 Encoding = "iso-8859-1"

	// EncodingASCII is ASCII encoding.
	EncodingASCII Encoding = "ascii"
)

// LineEnding represents the line ending style.
type LineEnding string

const (
	// LineEndingLF is Unix-style line ending (\n).
	LineEndingLF LineEnding = "lf"

	// LineEndingCRLF is Windows-style line ending (\r\n).
	LineEndingCRLF LineEnding = "crlf"

	// LineEndingCR is old Mac-style line ending (\r).
	LineEndingCR LineEnding = "cr"
)

// Sequence returns the bytes that end a line in this style.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// BOM (Byte Order Mark) constants
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding attempts to detect the encoding of file content.
// It checks for BOM markers first, then validates UTF-8.
// Falls back to Latin-1 which accepts all byte sequences.
func DetectEncoding(content []byte) Encoding {
	if len(content) == 0 {
		return EncodingUTF8
	}

	if bytes.HasPrefix(content, bomUTF8) {
		return EncodingUTF8BOM
	}
	if bytes.HasPrefix(content, bomUTF16LE) {
		return EncodingUTF16LE
	}
	if bytes.HasPrefix(content, bomUTF16BE) {
		return EncodingUTF16BE
	}

	if utf8.Valid(content) {
		if isASCII(content) {
			return EncodingASCII
		}
		return EncodingUTF8
	}

	return EncodingLatin1
}

// DetectLineEnding reports the style of the first line break in content.
// Content without a line break is LF. Nothing is normalized.
func DetectLineEnding(content []byte) LineEnding {
	i := bytes.IndexAny(content, "\r\n")
	switch {
	case i < 0 || content[i] == '\n':
		return LineEndingLF
	case i+1 < len(content) && content[i+1] == '\n':
		return LineEndingCRLF
	default:
		return LineEndingCR
	}
}

// StripBOM removes the BOM from content if present.
// Returns the content without BOM and the detected encoding.
func StripBOM(content []byte) ([]byte, Encoding) {
	if bytes.HasPrefix(content, bomUTF8) {
		return content[3:], EncodingUTF8BOM
	}
	if bytes.HasPrefix(content, bomUTF16LE) {
		return content[2:], EncodingUTF16LE
	}
	if bytes.HasPrefix(content, bomUTF16BE) {
		return content[2:], EncodingUTF16BE
	}
	return content, EncodingUTF8
}

// AddBOM adds a BOM marker for the specified encoding.
// Only UTF-8 BOM, UTF-16 LE, and UTF-16 BE BOMs are supported.
func AddBOM(content []byte, enc Encoding) []byte {
	var bom []byte
	switch enc {
	case EncodingUTF8BOM:
		bom = bomUTF8
	case EncodingUTF16LE:
		bom = bomUTF16LE
	case EncodingUTF16BE:
		bom = bomUTF16BE
	default:
		return content
	}
	if bytes.HasPrefix(content, bom) {
		return content
	}
	out := make([]byte, 0, len(bom)+len(content))
	out = append(out, bom...)
	return append(out, content...)
}

// Decode detects the encoding of raw file content and returns it as UTF-8
// without a BOM, together with the detected encoding.
func Decode(raw []byte) ([]byte, Encoding, error) {
	enc := DetectEncoding(raw)
	body, _ := StripBOM(raw)

	codec := textEncoding(enc)
	if codec == nil {
		return body, enc, nil
	}
	text, err := codec.NewDecoder().Bytes(body)
	if err != nil {
		return nil, enc, fmt.Errorf("decode %s: %w", enc, err)
	}
	return text, enc, nil
}

// Encode converts UTF-8 text to enc, adding the BOM the encoding carries.
func Encode(text []byte, enc Encoding) ([]byte, error) {
	out := text
	if codec := textEncoding(enc); codec != nil {
		var err error
		out, err = codec.NewEncoder().Bytes(text)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", enc, err)
		}
	}
	return AddBOM(out, enc), nil
}

// textEncoding returns the transcoder for enc, or nil when the bytes are
// already UTF-8 apart from a BOM.
func textEncoding(enc Encoding) encoding.Encoding {
	switch enc {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case EncodingLatin1:
		return charmap.ISO8859_1
	default:
		return nil
	}
}

// isASCII returns true if all bytes are ASCII (< 128).
func isASCII(content []byte) bool {
	for _, b := range content {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
