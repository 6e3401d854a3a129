package woql

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pattern is a compiled path pattern: PathAtom, PathSeq, PathAlt or
// PathRepeat.
type Pattern interface {
	Term
	pattern()
}

// PathAtom follows one predicate, backwards when Inverse is set.
type PathAtom struct {
	Predicate string
	Inverse   bool
}

// PathSeq follows each step in turn.
type PathSeq struct {
	Steps []Pattern
}

// PathAlt follows any one of its options.
type PathAlt struct {
	Options []Pattern
}

// PathRepeat follows Of between Min and Max times. Max < 0 is unbounded.
type PathRepeat struct {
	Of       Pattern
	Min, Max int
}

func (PathAtom) term()      {}
func (PathSeq) term()       {}
func (PathAlt) term()       {}
func (PathRepeat) term()    {}
func (PathAtom) pattern()   {}
func (PathSeq) pattern()    {}
func (PathAlt) pattern()    {}
func (PathRepeat) pattern() {}

// CompilePath parses a path pattern.
//
//	pattern := term ('|' term)*
//	term    := factor ((',' | ws)? factor)*
//	factor  := atom ('*' | '+' | '{' INT ',' INT '}')*
//	atom    := '<' predicate | predicate '>'? | '(' pattern ')'
//
// A predicate is a run of any non-space runes other than the operators
// | , ( ) { } * + < >, so Unicode IRIs compile as written.
//
// Nested sequences and alternations are flattened, so compiling the
// output of DecompilePath yields the same tree.
func CompilePath(src string) (Pattern, error) {
	p := &pathParser{src: src}
	p.skipSpace()
	if p.done() {
		return nil, p.errorf("empty pattern")
	}
	pat, err := p.alternation()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.done() {
		if p.peek() == ')' {
			return nil, p.errorf("unbalanced ')'")
		}
		r, _ := p.peekRune()
		return nil, p.errorf("unexpected %q", r)
	}
	return pat, nil
}

type pathParser struct {
	src string
	pos int
}

func (p *pathParser) errorf(format string, args ...any) error {
	return &Error{
		Code:    CodeInvalidPathPattern,
		Op:      "Path",
		Message: fmt.Sprintf("%q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...)),
	}
}

func (p *pathParser) done() bool { return p.pos >= len(p.src) }
func (p *pathParser) peek() byte { return p.src[p.pos] }

// peekRune decodes the rune at the cursor. Invalid UTF-8 reads as
// utf8.RuneError with size 1.
func (p *pathParser) peekRune() (rune, int) {
	return utf8.DecodeRuneInString(p.src[p.pos:])
}

func (p *pathParser) skipSpace() {
	for !p.done() {
		r, size := p.peekRune()
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

const pathOperators = "|,(){}*+<>"

func isPredicateRune(r rune, size int) bool {
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	return !unicode.IsSpace(r) && !unicode.IsControl(r) && !strings.ContainsRune(pathOperators, r)
}

func (p *pathParser) alternation() (Pattern, error) {
	var options []Pattern
	for {
		t, err := p.sequence()
		if err != nil {
			return nil, err
		}
		if alt, ok := t.(PathAlt); ok {
			options = append(options, alt.Options...)
		} else {
			options = append(options, t)
		}
		p.skipSpace()
		if p.done() || p.peek() != '|' {
			break
		}
		p.pos++
	}
	if len(options) == 1 {
		return options[0], nil
	}
	return PathAlt{Options: options}, nil
}

func (p *pathParser) sequence() (Pattern, error) {
	var steps []Pattern
	for {
		p.skipSpace()
		if p.done() || p.peek() == '|' || p.peek() == ')' {
			break
		}
		if len(steps) > 0 && p.peek() == ',' {
			p.pos++
			p.skipSpace()
		}
		f, err := p.factor()
		if err != nil {
			return nil, err
		}
		if seq, ok := f.(PathSeq); ok {
			steps = append(steps, seq.Steps...)
		} else {
			steps = append(steps, f)
		}
	}
	switch len(steps) {
	case 0:
		return nil, p.errorf("expected a predicate")
	case 1:
		return steps[0], nil
	}
	return PathSeq{Steps: steps}, nil
}

func (p *pathParser) factor() (Pattern, error) {
	a, err := p.atom()
	if err != nil {
		return nil, err
	}
	for !p.done() {
		switch p.peek() {
		case '*':
			p.pos++
			a = PathRepeat{Of: a, Min: 0, Max: -1}
		case '+':
			p.pos++
			a = PathRepeat{Of: a, Min: 1, Max: -1}
		case '{':
			lo, hi, err := p.bounds()
			if err != nil {
				return nil, err
			}
			a = PathRepeat{Of: a, Min: lo, Max: hi}
		default:
			return a, nil
		}
	}
	return a, nil
}

func (p *pathParser) bounds() (int, int, error) {
	start := p.pos
	end := strings.IndexByte(p.src[start:], '}')
	if end < 0 {
		return 0, 0, p.errorf("unterminated bound")
	}
	body := p.src[start+1 : start+end]
	lo, hi, ok := strings.Cut(body, ",")
	if !ok {
		return 0, 0, p.errorf("malformed bound {%s}, want {m,n}", body)
	}
	m, err1 := strconv.Atoi(strings.TrimSpace(lo))
	n, err2 := strconv.Atoi(strings.TrimSpace(hi))
	if err1 != nil || err2 != nil || m < 0 || n < m {
		return 0, 0, p.errorf("malformed bound {%s}", body)
	}
	p.pos = start + end + 1
	return m, n, nil
}

func (p *pathParser) atom() (Pattern, error) {
	if p.done() {
		return nil, p.errorf("expected a predicate")
	}
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		inner, err := p.alternation()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.done() || p.peek() != ')' {
			return nil, p.errorf("unbalanced '('")
		}
		p.pos++
		return inner, nil
	case c == '<':
		p.pos++
		pred := p.predicate()
		if pred == "" {
			return nil, p.errorf("expected a predicate after '<'")
		}
		return PathAtom{Predicate: pred, Inverse: true}, nil
	}
	if r, size := p.peekRune(); !isPredicateRune(r, size) {
		return nil, p.errorf("unexpected %q", r)
	}
	pred := p.predicate()
	if !p.done() && p.peek() == '>' {
		p.pos++
	}
	return PathAtom{Predicate: pred}, nil
}

func (p *pathParser) predicate() string {
	start := p.pos
	for !p.done() {
		r, size := p.peekRune()
		if !isPredicateRune(r, size) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

// Binding strengths used for minimal parenthesization.
const (
	precAlt = iota
	precSeq
	precFactor
)

func precedence(p Pattern) int {
	switch v := p.(type) {
	case PathAlt:
		if len(v.Options) == 1 {
			return precedence(v.Options[0])
		}
		return precAlt
	case PathSeq:
		if len(v.Steps) == 1 {
			return precedence(v.Steps[0])
		}
		return precSeq
	case PathRepeat:
		if v.Min == 1 && v.Max == 1 {
			return precedence(v.Of)
		}
		if v.Max < 0 && v.Min > 1 {
			return precSeq
		}
	}
	return precFactor
}

// DecompilePath renders a pattern back to text using the fewest
// parentheses that keep its meaning. {1,1} renders as the bare atom.
func DecompilePath(p Pattern) string {
	var sb strings.Builder
	writePath(&sb, p, precAlt)
	return sb.String()
}

func writePath(sb *strings.Builder, p Pattern, min int) {
	if precedence(p) < min {
		sb.WriteByte('(')
		writePath(sb, p, precAlt)
		sb.WriteByte(')')
		return
	}
	switch v := p.(type) {
	case PathAtom:
		if v.Inverse {
			sb.WriteByte('<')
		}
		sb.WriteString(v.Predicate)
	case PathAlt:
		for i, o := range v.Options {
			if i > 0 {
				sb.WriteByte('|')
			}
			writePath(sb, o, precSeq)
		}
	case PathSeq:
		for i, s := range v.Steps {
			if i > 0 {
				sb.WriteByte(',')
			}
			// A nested sequence is parenthesized so it stays nested.
			writePath(sb, s, precFactor)
		}
	case PathRepeat:
		switch {
		case v.Min == 1 && v.Max == 1:
			writePath(sb, v.Of, min)
		case v.Max < 0 && v.Min > 1:
			// No {m,} form exists: write m copies then a star.
			writePath(sb, PathSeq{Steps: []Pattern{
				PathRepeat{Of: v.Of, Min: v.Min, Max: v.Min},
				PathRepeat{Of: v.Of, Min: 0, Max: -1},
			}}, min)
		default:
			writePath(sb, v.Of, precFactor)
			switch {
			case v.Min == 0 && v.Max < 0:
				sb.WriteByte('*')
			case v.Min == 1 && v.Max < 0:
				sb.WriteByte('+')
			default:
				fmt.Fprintf(sb, "{%d,%d}", v.Min, v.Max)
			}
		}
	}
}
