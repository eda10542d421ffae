package epub

import (
	"bytes"
	"encoding/xml"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeToUTF8 turns arbitrary chapter bytes into UTF-8 text. EPUB mandates
// UTF-8/UTF-16, but files produced by converters frequently carry GBK or
// GB18030 payloads anyway.
func decodeToUTF8(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		data = data[3:]
	}

	if bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		r := transform.NewReader(bytes.NewReader(data), unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
		if b, err := io.ReadAll(r); err == nil {
			return string(b), nil
		}
	}
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) {
		r := transform.NewReader(bytes.NewReader(data), unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
		if b, err := io.ReadAll(r); err == nil {
			return string(b), nil
		}
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, dec := range []transform.Transformer{
		simplifiedchinese.GB18030.NewDecoder(),
		simplifiedchinese.GBK.NewDecoder(),
	} {
		r := transform.NewReader(bytes.NewReader(data), dec)
		if b, err := io.ReadAll(r); err == nil && utf8.Valid(b) {
			return string(b), nil
		}
	}

	return string(data), nil
}

// decodeXML parses container/OPF documents, tolerating declared legacy
// charsets.
func decodeXML(r io.Reader, out any) error {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		data, err := io.ReadAll(input)
		if err != nil {
			return nil, err
		}
		decoded, err := decodeToUTF8(data)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader([]byte(decoded)), nil
	}
	return dec.Decode(out)
}
