package importer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// utf8Reader wraps r so that reads yield UTF-8 regardless of the source
// encoding. BOMs win over content sniffing; valid UTF-8 passes through;
// otherwise chardet picks a single-byte charset with Windows-1252 as fallback.
func utf8Reader(r io.Reader) (*bufio.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decoded(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decoded(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	case validUTF8Prefix(buf):
		return br, nil
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-9":
			return decoded(br, charmap.ISO8859_9.NewDecoder()), nil
		case "ISO-8859-15":
			return decoded(br, charmap.ISO8859_15.NewDecoder()), nil
		}
	}

	return decoded(br, charmap.Windows1252.NewDecoder()), nil
}

func decoded(r io.Reader, t transform.Transformer) *bufio.Reader {
	return bufio.NewReader(transform.NewReader(r, t))
}

// validUTF8Prefix reports whether buf is UTF-8, tolerating a multi-byte
// sequence cut off by the peek window.
func validUTF8Prefix(buf []byte) bool {
	for i := 0; i < utf8.UTFMax && len(buf) > 0; i++ {
		if utf8.Valid(buf) {
			return true
		}

		if len(buf) < sniffSize {
			return false
		}

		buf = buf[:len(buf)-1]
	}

	return utf8.Valid(buf)
}
