package xlsxconv

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// codec encodes output lines. A nil encoder writes UTF-8 unchanged.
type codec struct {
	encoder *encoding.Encoder
	// bom is written once before the first line.
	bom []byte
}

func codecFor(e Encoding) (codec, error) {
	switch e {
	case EncodingUTF8:
		return codec{}, nil
	case EncodingASCII:
		return codec{encoder: &encoding.Encoder{Transformer: asciiEncoder{}}}, nil
	case EncodingLatin1:
		return codec{encoder: charmap.ISO8859_1.NewEncoder()}, nil
	case EncodingUTF16:
		return codec{
			encoder: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder(),
			bom:     []byte{0xff, 0xfe},
		}, nil
	}
	return codec{}, fmt.Errorf("%w: unsupported encoding %q", ErrInvalidPolicy, e)
}

// encode converts one line. Characters the encoding cannot represent are an
// error, never replaced.
func (c codec) encode(s string) ([]byte, error) {
	if c.encoder == nil {
		return []byte(s), nil
	}
	out, err := c.encoder.Bytes([]byte(s))
	if err != nil {
		if r, ok := c.firstUnencodable(s); ok {
			return nil, fmt.Errorf("%w: %q (U+%04X)", ErrUnencodable, r, r)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnencodable, err)
	}
	return out, nil
}

func (c codec) firstUnencodable(s string) (rune, bool) {
	for _, r := range s {
		if _, err := c.encoder.String(string(r)); err != nil {
			return r, true
		}
	}
	return 0, false
}

var errNotASCII = errors.New("encoding: rune not supported by ascii")

// asciiEncoder passes 7-bit input through and rejects everything else.
type asciiEncoder struct{ transform.NopResetter }

func (asciiEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if src[nSrc] >= utf8.RuneSelf {
			return nDst, nSrc, errNotASCII
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = src[nSrc]
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}
