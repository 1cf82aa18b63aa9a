package pattern

// matcher holds the state of one match attempt.
type matcher struct {
	text     string
	items    []item
	capStart int
	capEnd   int
}

// match tries to match items[pi:] at text[s:]. It returns the end of the
// match or -1.
func (m *matcher) match(s, pi int) int {
	for pi < len(m.items) {
		it := &m.items[pi]

		switch it.kind {
		case itemCaptureOpen:
			old := m.capStart
			m.capStart = s
			if end := m.match(s, pi+1); end >= 0 {
				return end
			}
			m.capStart = old
			return -1

		case itemCaptureClose:
			old := m.capEnd
			m.capEnd = s
			if end := m.match(s, pi+1); end >= 0 {
				return end
			}
			m.capEnd = old
			return -1

		case itemEnd:
			if s != len(m.text) {
				return -1
			}
			pi++
			continue
		}

		switch it.quant {
		case '*':
			return m.maxExpand(s, pi, 0)

		case '+':
			if !m.singleMatch(s, it) {
				return -1
			}
			return m.maxExpand(s, pi, 1)

		case '-':
			return m.minExpand(s, pi)

		case '?':
			if m.singleMatch(s, it) {
				if end := m.match(s+1, pi+1); end >= 0 {
					return end
				}
			}
			pi++

		default:
			if !m.singleMatch(s, it) {
				return -1
			}
			s++
			pi++
		}
	}

	return s
}

// maxExpand matches as many repetitions of items[pi] as possible starting
// from s+skip, then backs off until the rest of the pattern matches.
func (m *matcher) maxExpand(s, pi, skip int) int {
	it := &m.items[pi]

	count := skip
	for m.singleMatch(s+count, it) {
		count++
	}

	for ; count >= skip; count-- {
		if end := m.match(s+count, pi+1); end >= 0 {
			return end
		}
	}
	return -1
}

// minExpand matches as few repetitions of items[pi] as possible.
func (m *matcher) minExpand(s, pi int) int {
	it := &m.items[pi]

	for {
		if end := m.match(s, pi+1); end >= 0 {
			return end
		}
		if !m.singleMatch(s, it) {
			return -1
		}
		s++
	}
}

func (m *matcher) singleMatch(s int, it *item) bool {
	if s >= len(m.text) {
		return false
	}
	ch := m.text[s]

	switch it.kind {
	case itemAny:
		return true
	case itemLiteral:
		return ch == it.lit
	case itemClass:
		return matchClass(ch, it.class)
	case itemSet:
		return matchSet(ch, it)
	default:
		return false
	}
}

func matchSet(ch byte, it *item) bool {
	found := false
	for _, r := range it.ranges {
		if r.lo <= ch && ch <= r.hi {
			found = true
			break
		}
	}
	if !found {
		for _, cl := range it.classes {
			if matchClass(ch, cl) {
				found = true
				break
			}
		}
	}
	if it.negate {
		return !found
	}
	return found
}

func matchClass(ch, class byte) bool {
	var res bool

	switch lower(class) {
	case 'a':
		res = isAlpha(ch)
	case 'c':
		res = ch < 32 || ch == 127
	case 'd':
		res = isDigit(ch)
	case 'g':
		res = ch > 32 && ch < 127
	case 'l':
		res = ch >= 'a' && ch <= 'z'
	case 'p':
		res = isPunct(ch)
	case 's':
		res = ch == ' ' || (ch >= '\t' && ch <= '\r')
	case 'u':
		res = ch >= 'A' && ch <= 'Z'
	case 'w':
		res = isAlnum(ch)
	case 'x':
		res = isDigit(ch) || (lower(ch) >= 'a' && lower(ch) <= 'f')
	default:
		return class == ch
	}

	if class >= 'A' && class <= 'Z' {
		return !res
	}
	return res
}

func isClassLetter(ch byte) bool {
	switch lower(ch) {
	case 'a', 'c', 'd', 'g', 'l', 'p', 's', 'u', 'w', 'x':
		return true
	}
	return false
}

func lower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlnum(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

func isPunct(ch byte) bool {
	return ch > 32 && ch < 127 && !isAlnum(ch)
}
