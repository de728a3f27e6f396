package shortcut

import (
	"strings"

	"github.com/nicobailon/wtm/internal/shell"
)

// Vars are the values available to command templates. An empty field is
// unresolved.
type Vars struct {
	Path   string
	Branch string
	Repo   string
}

func (v Vars) lookup(name string) (string, bool) {
	switch name {
	case "1", "path":
		return v.Path, true
	case "2", "branch":
		return v.Branch, true
	case "repo":
		return v.Repo, true
	}
	return "", false
}

// Expand substitutes $1/$path, $2/$branch and $repo (also in ${name} form)
// with values quoted for where they appear: single-quoted in bare words,
// escaped inside "..." and '...'. Other $ references are left for the
// shell. The result is false when a referenced placeholder has no value.
func Expand(template string, vars Vars) (string, bool) {
	var b strings.Builder
	inSingle, inDouble := false, false
	ok := true

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '\\' && !inSingle && i+1 < len(template):
			b.WriteByte(c)
			b.WriteByte(template[i+1])
			i++
			continue
		case c == '\'' && !inDouble:
			inSingle = !inSingle
		case c == '"' && !inSingle:
			inDouble = !inDouble
		case c == '$':
			name, n := placeholder(template[i+1:])
			if val, known := vars.lookup(name); known {
				if val == "" {
					ok = false
				}
				switch {
				case inSingle:
					b.WriteString(strings.ReplaceAll(val, "'", `'\''`))
				case inDouble:
					b.WriteString(escapeDouble(val))
				default:
					b.WriteString(shell.Quote(val))
				}
				i += n
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String(), ok
}

// placeholder reads the name following a '$' and how many bytes it spans.
func placeholder(s string) (string, int) {
	if s == "" {
		return "", 0
	}
	if s[0] >= '0' && s[0] <= '9' {
		return s[:1], 1
	}
	if s[0] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return "", 0
		}
		return s[1:end], end + 1
	}
	n := 0
	for n < len(s) && isIdent(s[n]) {
		n++
	}
	return s[:n], n
}

func isIdent(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func escapeDouble(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")
	return r.Replace(s)
}
