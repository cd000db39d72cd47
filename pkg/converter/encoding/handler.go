// Package encoding turns raw source file bytes into UTF-8 text ready for the
// enum parser.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// sniffLen is the number of bytes used by http.DetectContentType.
	sniffLen = 512
	// checkLen is the prefix scanned for null bytes.
	checkLen = 1024
	// Null byte ratio above which content is considered binary.
	nullThreshold = 0.15
)

// ErrUnknownEncoding indicates a configured default encoding that charset
// does not recognise.
var ErrUnknownEncoding = errors.New("unknown character encoding")

// Text-based MIME types as reported by http.DetectContentType for source code.
var knownTextMIMETypes = map[string]bool{
	"application/json":       true,
	"application/xml":        true,
	"application/javascript": true,
	"application/typescript": true,
	// Source files with unusual leading bytes sniff as octet-stream; the null
	// byte check decides.
	"application/octet-stream": true,
}

// Handler detects the character encoding of source files and decodes them.
// Implementations MUST be safe for concurrent use.
type Handler interface {
	// Decode returns content as UTF-8 text with any byte order mark removed,
	// together with the IANA name of the encoding it was read as.
	Decode(content []byte) (text string, encodingName string, err error)

	// IsBinary reports whether content is likely not text at all.
	IsBinary(content []byte) bool
}

type charsetHandler struct {
	defaultEncoding string
}

// NewCharsetHandler creates a Handler backed by golang.org/x/net/html/charset.
// defaultEncoding, when set, is used whenever detection is uncertain.
func NewCharsetHandler(defaultEncoding string) (Handler, error) {
	if defaultEncoding != "" {
		if enc, _ := charset.Lookup(defaultEncoding); enc == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, defaultEncoding)
		}
	}
	return &charsetHandler{defaultEncoding: defaultEncoding}, nil
}

// Decode implements Handler.
func (h *charsetHandler) Decode(content []byte) (string, string, error) {
	enc, name, certain := charset.DetermineEncoding(content, "")

	// charset guesses windows-1252 for plain ASCII; valid UTF-8 is read as
	// UTF-8 and never reinterpreted through the fallback.
	if !certain {
		switch {
		case utf8.Valid(content):
			enc, name = unicode.UTF8, "utf-8"
		case h.defaultEncoding != "":
			if fallback, fallbackName := charset.Lookup(h.defaultEncoding); fallback != nil {
				enc, name = fallback, fallbackName
			}
		}
	}

	// A BOM always wins over the guessed encoding and is stripped.
	decoder := unicode.BOMOverride(enc.NewDecoder())
	out, _, err := transform.Bytes(decoder, content)
	if err != nil {
		return "", name, fmt.Errorf("failed to convert from %q: %w", name, err)
	}
	return string(out), name, nil
}

// IsBinary implements Handler.
func (h *charsetHandler) IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	contentType := http.DetectContentType(content[:min(len(content), sniffLen)])
	if !isMIMETextBased(contentType) {
		return true
	}

	// UTF-16 text is full of null bytes; trust its BOM.
	if bytes.HasPrefix(content, []byte{0xFF, 0xFE}) || bytes.HasPrefix(content, []byte{0xFE, 0xFF}) {
		return false
	}

	prefix := content[:min(len(content), checkLen)]
	nulls := bytes.Count(prefix, []byte{0x00})
	return float64(nulls)/float64(len(prefix)) > nullThreshold
}

func isMIMETextBased(contentType string) bool {
	mimeType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	if knownTextMIMETypes[mimeType] {
		return true
	}
	return strings.HasSuffix(mimeType, "+xml") || strings.HasSuffix(mimeType, "+json")
}
