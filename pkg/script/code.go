package script

import "strings"

// ScriptCode is one parsed line of a script. It is immutable once parsed;
// execution state lives elsewhere so parsed scripts can be shared across
// concurrently running threads.
type ScriptCode struct {
	// Name is the command identifier as written. Dispatch is
	// case-insensitive.
	Name string `json:"name"`

	// Params are the raw argument tokens in order. Quoted string literals
	// keep their quotes and $var references keep their dollar sign;
	// resolution happens at dispatch time.
	Params []string `json:"params,omitempty"`

	// Result is the secondary token after the closing parenthesis,
	// used by branching commands as a jump target.
	Result string `json:"result,omitempty"`

	// Literal is the original source line, kept for diagnostics.
	Literal string `json:"literal"`

	// LineNumber is the 1-based line in the source file.
	LineNumber int `json:"line"`

	IsLabel bool `json:"is_label,omitempty"`
	IsGoto  bool `json:"is_goto,omitempty"`
}

// ScriptData is a parsed script file: the ordered opcodes plus the label
// index. Created once by Parse and shared read-only between runs.
type ScriptData struct {
	FileName string
	Codes    []ScriptCode
	Labels   map[string]int
}

// LabelIndex returns the code index of a label, case-insensitively.
func (d *ScriptData) LabelIndex(name string) (int, bool) {
	idx, ok := d.Labels[strings.ToLower(name)]
	return idx, ok
}

// JumpTargets returns every label name referenced by Goto/If lines.
// Used by the validator to report dangling targets at load time.
func (d *ScriptData) JumpTargets() []string {
	var targets []string
	for _, c := range d.Codes {
		if !c.IsGoto {
			continue
		}
		if t := c.JumpTarget(); t != "" {
			targets = append(targets, t)
		}
	}
	return targets
}

// JumpTarget returns the label a Goto/If line jumps to, or "" if the
// line is not a jump. Both forms prefer the ":result" token; without one,
// Goto reads its first parameter and If its second (the first being the
// condition).
func (c *ScriptCode) JumpTarget() string {
	if !c.IsGoto {
		return ""
	}
	if c.Result != "" {
		return c.Result
	}
	if strings.EqualFold(c.Name, "If") {
		if len(c.Params) > 1 {
			return Unquote(c.Params[1])
		}
		return ""
	}
	if len(c.Params) > 0 {
		return Unquote(c.Params[0])
	}
	return ""
}

// Unquote strips a matching pair of double quotes from a token. Tokens
// without surrounding quotes are returned unchanged.
func Unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
