package headers

import "strings"

// JoinList flattens elems into a single [list-based field value]:
// an empty list yields the empty string,
// a singleton list yields its sole element verbatim,
// and a longer list yields its elements separated by commas.
// In the latter case, any element that itself contains a comma and is not
// already wrapped in double quotes gets so wrapped, lest it be mistaken
// for multiple list elements by recipients.
//
// The elements of a header-field value may be separated simply by commas;
// since whitespace is optional, we don't use any.
// See https://httpwg.org/http-core/draft-ietf-httpbis-semantics-latest.html#abnf.extension.recipient
//
// [list-based field value]: https://httpwg.org/specs/rfc9110.html#abnf.extension
func JoinList(elems []string) string {
	switch len(elems) {
	case 0:
		return ""
	case 1:
		return elems[0]
	}
	var sb strings.Builder
	for i, elem := range elems {
		if i > 0 {
			sb.WriteString(ValueSep)
		}
		if strings.Contains(elem, ValueSep) && !isQuoted(elem) {
			sb.WriteByte('"')
			sb.WriteString(elem)
			sb.WriteByte('"')
			continue
		}
		sb.WriteString(elem)
	}
	return sb.String()
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}
