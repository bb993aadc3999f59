package osc

import (
	"strconv"
	"strings"
)

// ToText renders m as a single debugging/preset line:
// "address ,<tags> arg0 arg1 …". Returns an error if m carries a blob
// argument — blobs have no reversible textual representation and this
// codec refuses to guess one (see SPEC_FULL.md §9).
func ToText(m Message) (string, error) {
	var b strings.Builder
	b.WriteString(m.Address)
	b.WriteByte(' ')
	b.WriteString(m.TypeTags())

	for _, a := range m.Args {
		b.WriteByte(' ')
		switch a.Kind {
		case ArgInt:
			b.WriteString(strconv.FormatInt(int64(a.I), 10))
		case ArgFloat:
			b.WriteString(strconv.FormatFloat(float64(a.F), 'g', -1, 32))
		case ArgString:
			b.WriteString(quoteToken(a.S))
		case ArgBlob:
			return "", errParse("blob arguments have no text form")
		}
	}
	return b.String(), nil
}

// quoteToken double-quotes s if it contains whitespace or a double quote,
// escaping embedded quotes and backslashes.
func quoteToken(s string) string {
	if !needsQuoting(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '"' || r == '\\' {
			return true
		}
	}
	return false
}

// FromText parses a single text-form command line into a Message. Tag
// characters determine how each following token is parsed: 'i' decimal
// integer, 'f' decimal float, 's' the raw (unquoted) token. Blobs ('b')
// cannot appear in text form.
func FromText(line string) (Message, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return Message{}, err
	}
	if len(tokens) == 0 {
		return Message{}, errParse("empty command line")
	}

	address := tokens[0]
	rest := tokens[1:]

	// A bare address with no type-tag token is a GET (no arguments).
	if len(rest) == 0 {
		return Message{Address: address}, nil
	}

	tags := rest[0]
	if len(tags) == 0 || tags[0] != ',' {
		return Message{}, errInvalidTypeTag()
	}
	argTokens := rest[1:]
	if len(argTokens) != len(tags)-1 {
		return Message{}, errParse("argument count does not match type tag string")
	}

	args := make([]Arg, 0, len(argTokens))
	for i, tok := range argTokens {
		switch tags[i+1] {
		case 'i':
			v, err := strconv.ParseInt(tok, 10, 32)
			if err != nil {
				return Message{}, errParse("invalid integer argument: " + tok)
			}
			args = append(args, Int(int32(v)))
		case 'f':
			v, err := strconv.ParseFloat(tok, 32)
			if err != nil {
				return Message{}, errParse("invalid float argument: " + tok)
			}
			args = append(args, Float(float32(v)))
		case 's':
			args = append(args, Str(tok))
		case 'b':
			return Message{}, errParse("blob arguments have no text form")
		default:
			return Message{}, errUnsupportedTypeTag(tags[i+1])
		}
	}

	return Message{Address: address, Args: args}, nil
}

// tokenize splits a text-form line on whitespace, honoring double-quoted
// groups (which may contain spaces) and backslash escapes.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inToken := false
	inQuotes := false
	escaped := false

	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inToken = false
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
			inToken = true
		case r == '\\':
			escaped = true
			inToken = true
		case r == '"':
			inQuotes = !inQuotes
			inToken = true
		case (r == ' ' || r == '\t') && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if inQuotes {
		return nil, errParse("unterminated quoted token")
	}
	if escaped {
		return nil, errParse("dangling escape at end of line")
	}
	flush()

	return tokens, nil
}
