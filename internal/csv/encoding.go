package csv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const sniffSize = 2048

// ErrUnknownEncoding is returned by Decode for unsupported charset names.
var ErrUnknownEncoding = errors.New("unknown encoding")

var charsets = map[string]encoding.Encoding{
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"windows-1250": charmap.Windows1250,
	"cp1250":       charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
}

// Decode wraps r so that it yields UTF-8. enc is one of "", "utf-8", "auto"
// or a name listed in charsets.
func Decode(r io.Reader, enc string) (io.Reader, error) {
	name := strings.ToLower(strings.TrimSpace(enc))
	switch name {
	case "", "utf-8", "utf8", "utf-8-sig":
		return r, nil
	case "auto":
		br := bufio.NewReader(r)
		peek, _ := br.Peek(sniffSize)
		return decodeAs(br, detect(peek)), nil
	}
	if _, ok := charsets[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, enc)
	}
	return decodeAs(r, name), nil
}

func decodeAs(r io.Reader, name string) io.Reader {
	cs, ok := charsets[name]
	if !ok {
		return r
	}
	return transform.NewReader(r, cs.NewDecoder())
}

// detect returns a lower-cased charset name, falling back to utf-8.
// chardet is only consulted when sample is not valid UTF-8.
func detect(sample []byte) string {
	if len(sample) == 0 || validUTF8Prefix(sample) {
		return "utf-8"
	}
	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil {
		return "utf-8"
	}
	return strings.ToLower(res.Charset)
}

// validUTF8Prefix is utf8.Valid, except that a rune cut off by the end of
// the sample is allowed.
func validUTF8Prefix(b []byte) bool {
	if utf8.Valid(b) {
		return true
	}
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		head, tail := b[:len(b)-i], b[len(b)-i:]
		if utf8.RuneStart(tail[0]) && !utf8.FullRune(tail) && utf8.Valid(head) {
			return true
		}
	}
	return false
}
