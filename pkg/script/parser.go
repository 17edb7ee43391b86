package script

import (
	"fmt"
	"strings"
)

// ParseError reports a structurally malformed script line. Unknown command
// names are not parse errors; they are resolved at dispatch time so scripts
// referencing not-yet-implemented commands still load.
type ParseError struct {
	FileName string
	Line     int
	Text     string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.FileName, e.Line, e.Reason, e.Text)
}

const labelPrefix = "label:"

// Parse tokenizes raw script text into a ScriptData. It is a pure
// transform: no side effects, and the result is immutable and shareable.
func Parse(text string, fileName string) (*ScriptData, error) {
	data := &ScriptData{
		FileName: fileName,
		Labels:   make(map[string]int),
	}

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		code, err := parseLine(line, lineNo, fileName)
		if err != nil {
			return nil, err
		}
		code.Literal = strings.TrimRight(raw, "\r\n")

		if code.IsLabel {
			name := strings.ToLower(code.Name)
			if _, dup := data.Labels[name]; dup {
				return nil, &ParseError{
					FileName: fileName,
					Line:     lineNo,
					Text:     line,
					Reason:   "duplicate label",
				}
			}
			data.Labels[name] = len(data.Codes)
		}
		data.Codes = append(data.Codes, code)
	}

	return data, nil
}

func parseLine(line string, lineNo int, fileName string) (ScriptCode, error) {
	fail := func(reason string) (ScriptCode, error) {
		return ScriptCode{}, &ParseError{
			FileName: fileName,
			Line:     lineNo,
			Text:     line,
			Reason:   reason,
		}
	}

	// Label marker line: "Label:name"
	if len(line) > len(labelPrefix) && strings.EqualFold(line[:len(labelPrefix)], labelPrefix) {
		name := strings.TrimSpace(line[len(labelPrefix):])
		if name == "" {
			return fail("empty label name")
		}
		return ScriptCode{
			Name:       name,
			LineNumber: lineNo,
			IsLabel:    true,
		}, nil
	}

	open := strings.IndexByte(line, '(')
	if open < 0 {
		// Bare command with no arguments, e.g. "Return".
		name, result, ok := splitResult(line)
		if !ok {
			return fail("malformed command name")
		}
		return ScriptCode{
			Name:       name,
			Result:     result,
			LineNumber: lineNo,
			IsGoto:     isJumpName(name),
		}, nil
	}

	name := strings.TrimSpace(line[:open])
	if name == "" {
		return fail("missing command name")
	}

	params, rest, err := scanArgs(line[open+1:])
	if err != nil {
		return fail(err.Error())
	}

	_, result, ok := splitResult(rest)
	if !ok {
		return fail("trailing garbage after argument list")
	}

	return ScriptCode{
		Name:       name,
		Params:     params,
		Result:     result,
		LineNumber: lineNo,
		IsGoto:     isJumpName(name),
	}, nil
}

// scanArgs consumes a comma-separated argument list up to the matching
// close parenthesis, respecting quoted strings. It returns the raw tokens
// and whatever follows the close paren.
func scanArgs(s string) (params []string, rest string, err error) {
	var cur strings.Builder
	inQuote := false
	flush := func() {
		tok := strings.TrimSpace(cur.String())
		if tok != "" {
			params = append(params, tok)
		}
		cur.Reset()
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"':
			inQuote = !inQuote
			cur.WriteByte(ch)
		case inQuote:
			cur.WriteByte(ch)
		case ch == ',':
			flush()
		case ch == ')':
			flush()
			return params, s[i+1:], nil
		default:
			cur.WriteByte(ch)
		}
	}

	if inQuote {
		return nil, "", fmt.Errorf("unterminated string literal")
	}
	return nil, "", fmt.Errorf("unmatched parenthesis")
}

// splitResult splits an optional trailing ":result" token off a command
// name or off the text after an argument list. ok is false when the text
// is not a bare identifier with an optional result suffix.
func splitResult(s string) (name, result string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", true
	}
	if colon := strings.IndexByte(s, ':'); colon >= 0 {
		name = strings.TrimSpace(s[:colon])
		result = strings.TrimSpace(s[colon+1:])
		if result == "" {
			return "", "", false
		}
		return name, result, true
	}
	return s, "", true
}

func isJumpName(name string) bool {
	return strings.EqualFold(name, "Goto") || strings.EqualFold(name, "If")
}

// stripComment removes ";" and "//" comments, ignoring markers inside
// quoted strings.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '"':
			inQuote = !inQuote
		case inQuote:
		case line[i] == ';':
			return line[:i]
		case line[i] == '/' && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}
