package utils

import "strings"

// voidTags never take a closing tag and must not land on the close stack.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// TruncateHTMLWords cuts an HTML fragment after limit words while keeping
// the markup balanced: tags opened before the cut are closed in reverse
// order, and an ellipsis marks the truncation. Markup inside tags does not
// count toward the word total.
func TruncateHTMLWords(html string, limit int) string {
	if limit <= 0 {
		return ""
	}

	var out strings.Builder
	var open []string
	words := 0
	inWord := false
	truncated := false

	for i := 0; i < len(html); {
		c := html[i]

		if c == '<' {
			end := strings.IndexByte(html[i:], '>')
			if end < 0 {
				// Unterminated tag; drop the remainder.
				break
			}
			tag := html[i : i+end+1]
			name, closing, selfClosing := parseTag(tag)
			out.WriteString(tag)
			if name != "" && !selfClosing && !voidTags[name] {
				if closing {
					if n := len(open); n > 0 && open[n-1] == name {
						open = open[:n-1]
					}
				} else {
					open = append(open, name)
				}
			}
			i += end + 1
			inWord = false
			continue
		}

		isSpace := c == ' ' || c == '\t' || c == '\n' || c == '\r'
		if !isSpace && !inWord {
			words++
			if words > limit {
				truncated = true
				break
			}
			inWord = true
		} else if isSpace {
			inWord = false
		}
		out.WriteByte(c)
		i++
	}

	result := strings.TrimRight(out.String(), " \t\n\r")
	if truncated {
		result += " …"
	}
	for i := len(open) - 1; i >= 0; i-- {
		result += "</" + open[i] + ">"
	}
	return result
}

// parseTag extracts the lowercased element name from a raw "<...>" chunk and
// reports whether it is a closing or self-closing tag. Comments and
// declarations come back with an empty name.
func parseTag(tag string) (name string, closing, selfClosing bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(tag, "<"), ">")
	if strings.HasSuffix(inner, "/") {
		selfClosing = true
		inner = strings.TrimSuffix(inner, "/")
	}
	if strings.HasPrefix(inner, "/") {
		closing = true
		inner = strings.TrimPrefix(inner, "/")
	}
	inner = strings.TrimSpace(inner)
	if inner == "" || inner[0] == '!' || inner[0] == '?' {
		return "", closing, selfClosing
	}
	end := 0
	for end < len(inner) {
		c := inner[end]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		end++
	}
	return strings.ToLower(inner[:end]), closing, selfClosing
}
