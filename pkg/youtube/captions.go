package youtube

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	captionTextRe = regexp.MustCompile(`<text[^>]*>([^<]+)</text>`)
)

// ExtractCaptionText turns a timed-text caption track into plain text: the
// text content of every <text> element in document order, space-joined, with
// whitespace collapsed. Malformed markup degrades to a best-effort regex
// extraction, and if that yields nothing the raw input is returned unchanged.
// It never fails.
func ExtractCaptionText(markup string) string {
	parts, err := parseTimedText(markup)
	if err == nil {
		return collapseWhitespace(strings.Join(parts, " "))
	}

	matches := captionTextRe.FindAllStringSubmatch(markup, -1)
	if len(matches) > 0 {
		extracted := make([]string, 0, len(matches))
		for _, m := range matches {
			extracted = append(extracted, strings.TrimSpace(m[1]))
		}
		return collapseWhitespace(strings.Join(extracted, " "))
	}

	return markup
}

func parseTimedText(markup string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(markup))

	var parts []string
	depth := 0
	sawElement := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			sawElement = true
			if t.Name.Local == "text" || depth > 0 {
				depth++
			}
		case xml.EndElement:
			if depth > 0 {
				depth--
			}
		case xml.CharData:
			if depth > 0 {
				if text := strings.TrimSpace(string(t)); text != "" {
					parts = append(parts, text)
				}
			}
		}
	}
	// Bare character data is not an XML document; let the caller fall back.
	if !sawElement {
		return nil, errNotXML
	}
	return parts, nil
}

var errNotXML = errors.New("no XML elements in caption payload")

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
