package parser

import (
	"encoding/xml"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// escapedChar matches the _xHHHH_ escapes OOXML uses for characters that
// cannot appear literally in XML text, such as a carriage return.
var escapedChar = regexp.MustCompile(`_x([0-9A-Fa-f]{4})_`)

// parseSharedStrings reads the shared string table in index order.
func parseSharedStrings(r io.Reader) ([]string, error) {
	var result []string
	decoder := xml.NewDecoder(r)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "si" {
			text, err := readRichText(decoder)
			if err != nil {
				return nil, err
			}
			result = append(result, unescapeText(text))
		}
	}
}

// readRichText consumes the current element and returns the text of its <t>
// descendants. Phonetic runs (<rPh>) are skipped.
func readRichText(decoder *xml.Decoder) (string, error) {
	var b strings.Builder
	depth, inText := 1, 0
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return b.String(), err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPh":
				if err := decoder.Skip(); err != nil {
					return b.String(), err
				}
				continue
			case "t":
				inText++
			}
			depth++
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" && inText > 0 {
				inText--
			}
		case xml.CharData:
			if inText > 0 {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

func unescapeText(s string) string {
	if !strings.Contains(s, "_x") {
		return s
	}
	return escapedChar.ReplaceAllStringFunc(s, func(m string) string {
		code, err := strconv.ParseUint(m[2:6], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
}
