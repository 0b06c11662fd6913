package vfs

import (
	"bytes"
	"testing"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    Encoding
	}{
		{
			name:    "empty",
			content: []byte{},
			want:    EncodingUTF8,
		},
		{
			name:    "ASCII",
			content: []byte("Hello, World!"),
			want:    EncodingASCII,
		},
		{
			name:    "UTF-8",
			content: []byte("Hello, 世界!"),
			want:    EncodingUTF8,
		},
		{
			name:    "UTF-8 BOM",
			content: append([]byte{0xEF, 0xBB, 0xBF}, []byte("Hello")...),
			want:    EncodingUTF8BOM,
		},
		{
			name:    "UTF-16 LE BOM",
			content: []byte{0xFF, 0xFE, 0x48, 0x00},
			want:    EncodingUTF16LE,
		},
		{
			name:    "UTF-16 BE BOM",
			content: []byte{0xFE, 0xFF, 0x00, 0x48},
			want:    EncodingUTF16BE,
		},
		{
			name:    "Latin-1",
			content: []byte{0x80, 0x90, 0xA0}, // Invalid UTF-8
			want:    EncodingLatin1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectEncoding(tt.content); got != tt.want {
				t.Errorf("DetectEncoding() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    LineEnding
	}{
		{"empty", "", LineEndingLF},
		{"no newline", "hello", LineEndingLF},
		{"LF", "a\nb", LineEndingLF},
		{"CRLF", "a\r\nb", LineEndingCRLF},
		{"CR", "a\rb", LineEndingCR},
		{"trailing CR", "a\r", LineEndingCR},
		{"first wins", "a\r\nb\nc\nd\n", LineEndingCRLF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLineEnding([]byte(tt.content)); got != tt.want {
				t.Errorf("DetectLineEnding(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestLineEndingSequence(t *testing.T) {
	if LineEndingLF.Sequence() != "\n" || LineEndingCRLF.Sequence() != "\r\n" || LineEndingCR.Sequence() != "\r" {
		t.Error("unexpected line ending sequences")
	}
}

func TestStripAddBOM(t *testing.T) {
	content := []byte("Hello")

	withBOM := AddBOM(content, EncodingUTF8BOM)
	if !bytes.HasPrefix(withBOM, bomUTF8) {
		t.Fatalf("AddBOM() = %x", withBOM)
	}
	if again := AddBOM(withBOM, EncodingUTF8BOM); !bytes.Equal(again, withBOM) {
		t.Error("AddBOM added a second BOM")
	}
	stripped, enc := StripBOM(withBOM)
	if enc != EncodingUTF8BOM || !bytes.Equal(stripped, content) {
		t.Errorf("StripBOM() = %q, %v", stripped, enc)
	}
	if got := AddBOM(content, EncodingUTF8); !bytes.Equal(got, content) {
		t.Errorf("AddBOM(UTF-8) = %q", got)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		enc  Encoding
		text string
	}{
		{
			name: "ASCII",
			raw:  []byte("hi\n"),
			enc:  EncodingASCII,
			text: "hi\n",
		},
		{
			name: "UTF-8 BOM",
			raw:  []byte("\xEF\xBB\xBFhé"),
			enc:  EncodingUTF8BOM,
			text: "hé",
		},
		{
			name: "UTF-16 LE",
			raw:  []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00, '\n', 0x00},
			enc:  EncodingUTF16LE,
			text: "hi\n",
		},
		{
			name: "UTF-16 BE",
			raw:  []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 0xE9},
			enc:  EncodingUTF16BE,
			text: "hé",
		},
		{
			name: "Latin-1",
			raw:  []byte{'c', 'a', 'f', 0xE9},
			enc:  EncodingLatin1,
			text: "café",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, enc, err := Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode error = %v", err)
			}
			if enc != tt.enc {
				t.Errorf("encoding = %v, want %v", enc, tt.enc)
			}
			if string(text) != tt.text {
				t.Errorf("text = %q, want %q", text, tt.text)
			}

			raw, err := Encode(text, enc)
			if err != nil {
				t.Fatalf("Encode error = %v", err)
			}
			if !bytes.Equal(raw, tt.raw) {
				t.Errorf("Encode() = %x, want %x", raw, tt.raw)
			}
		})
	}
}

func TestEncodeUnrepresentable(t *testing.T) {
	if _, err := Encode([]byte("世界"), EncodingLatin1); err == nil {
		t.Error("expected an error encoding CJK text as Latin-1")
	}
}
