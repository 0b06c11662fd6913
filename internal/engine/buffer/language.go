package buffer

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// PlainText is the language of files no lexer claims.
const PlainText = "plaintext"

// analyseLimit bounds the content inspected when the file name is not
// recognized.
const analyseLimit = 4096

// DetectLanguage returns the lower-cased lexer name for a file, e.g. "go".
// The file name decides first; content analysis, such as a shebang line, is
// the fallback.
func DetectLanguage(filename string, content []byte) string {
	var lexer chroma.Lexer
	if filename != "" {
		lexer = lexers.Match(filename)
	}
	if lexer == nil && len(content) > 0 {
		lexer = lexers.Analyse(string(content[:min(len(content), analyseLimit)]))
	}
	if lexer == nil {
		return PlainText
	}
	return strings.ToLower(lexer.Config().Name)
}
