package console

import "strconv"

// ParseEscapes turns typed escape notation into raw bytes so a line edited by
// a person can carry control sequences. Recognized: \e \n \r \b \t \\ \xNN
// and ^[ for ESC. Unknown or truncated escapes are kept literally.
func ParseEscapes(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '^' && i+1 < len(s) && s[i+1] == '[' {
			out = append(out, esc)
			i++
			continue
		}
		if ch != '\\' || i+1 >= len(s) {
			out = append(out, ch)
			continue
		}
		switch s[i+1] {
		case 'e', 'E':
			out = append(out, esc)
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 'b':
			out = append(out, backspace)
		case 't':
			out = append(out, '\t')
		case '\\':
			out = append(out, '\\')
		case 'x':
			if i+3 < len(s) {
				if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
					out = append(out, byte(v))
					i += 3
					continue
				}
			}
			out = append(out, ch, s[i+1])
		default:
			out = append(out, ch, s[i+1])
		}
		i++
	}
	return out
}
