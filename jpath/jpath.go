// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jpath implements a minimal JSONPath expression language over
// documents from package doc.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = ".." name
  step = "[" value "]"
  name = WORD
  name = "'" QTEXT "'"
  name = "*"
 value = name
 value = INDEX {"," INDEX}
 value = [INDEX] ":" [INDEX]
 value = "(" TEXT ")"
 value = "?(" TEXT ")"

  WORD = RE `\w+`
 QTEXT = RE `[^']*`
 INDEX = RE `-?\d+`
  TEXT = { all text with nested parentheses }

Source:
  https://www.ietf.org/archive/id/draft-goessner-dispatch-jsonpath-00.html
*/

// An Expr is a parsed JSONPath expression.
type Expr []Step

// Parse parses s as a JSONPath expression.
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var e Expr
	for t != "" {
		step, rest, err := parseStep(t)
		if err != nil {
			return nil, fmt.Errorf("at offset %d: %w", len(s)-len(t), err)
		}
		e = append(e, step)
		t = rest
	}
	return e, nil
}

// MustParse is as Parse, but panics if s is not a valid expression.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("jpath: %v", err))
	}
	return e
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		buf.WriteString(s.String())
	}
	return buf.String()
}

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // invalid operator
	Member             // member lookup (.)
	Index              // array index lookup
	Slice              // array slice
	Wildcard           // wildcard expansion (*)
	Name               // unquoted name expansion
	QName              // quoted name expansion
	Recur              // recur operator
	Filter             // filter operator
	Script             // script operator
)

var opText = [...]string{
	Invalid:  "invalid",
	Member:   ".",
	Index:    "index",
	Slice:    "slice",
	Wildcard: "*",
	Name:     "name",
	QName:    "qname",
	Recur:    "..",
	Filter:   "?(...)",
	Script:   "(...)",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return opText[Invalid]
}

// A Step is a single step of a JSONPath expression.
//
// For Member and Recur steps, Arg1 is the name and Kind reports whether it was
// a plain word (Name), quoted (QName), or a wildcard. For Index steps, Indices
// holds the offsets. For Slice steps, Arg1 and Arg2 are the bounds as written,
// either of which may be empty. For Filter and Script, Arg1 is the text
// between the parentheses.
type Step struct {
	Op      Op
	Kind    Op
	Arg1    string
	Arg2    string
	Indices []int
}

func (s Step) String() string {
	switch s.Op {
	case Member, Recur:
		if s.Kind == QName {
			return fmt.Sprintf("%s'%s'", s.Op, s.Arg1)
		}
		return s.Op.String() + s.Arg1
	case Slice:
		return fmt.Sprintf("[%s:%s]", s.Arg1, s.Arg2)
	case Script:
		return fmt.Sprintf("[(%s)]", s.Arg1)
	case Filter:
		return fmt.Sprintf("[?(%s)]", s.Arg1)
	case QName:
		return fmt.Sprintf("['%s']", s.Arg1)
	}
	return "[" + s.Arg1 + "]"
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, ".."); ok {
		kind, name, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid ..name: %w", err)
		}
		return Step{Op: Recur, Kind: kind, Arg1: name}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		kind, name, u, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid .name: %w", err)
		}
		return Step{Op: Member, Kind: kind, Arg1: name}, u, nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		out, u, err := parseBracket(t)
		if err != nil {
			return Step{}, t, err
		}
		u, ok := strings.CutPrefix(u, "]")
		if !ok {
			return Step{}, u, errors.New("missing close bracket")
		}
		return out, u, nil
	}
	return Step{}, s, errors.New("invalid path step")
}

func parseName(s string) (kind Op, name, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return Wildcard, "*", t, nil
	}
	if m := wordRE.FindStringSubmatch(s); m != nil {
		return Name, m[1], s[len(m[0]):], nil
	}
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		return QName, m[1], s[len(m[0]):], nil
	}
	return Invalid, "", s, errors.New("invalid name")
}

// parseBracket parses the contents of a bracketed step, up to but not
// including the closing bracket.
func parseBracket(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "?("); ok {
		text, rest, err := parseScript(t)
		return Step{Op: Filter, Arg1: text}, rest, err
	}
	if t, ok := strings.CutPrefix(s, "("); ok {
		text, rest, err := parseScript(t)
		return Step{Op: Script, Arg1: text}, rest, err
	}
	lo, rest := matchPrefix(intRE, s)
	if u, ok := strings.CutPrefix(rest, ":"); ok {
		hi, rest := matchPrefix(intRE, u)
		return Step{Op: Slice, Arg1: lo, Arg2: hi}, rest, nil
	}
	if m, rest := matchPrefix(indexRE, s); m != "" {
		out := Step{Op: Index, Arg1: m}
		for _, f := range strings.Split(m, ",") {
			v, err := strconv.Atoi(f)
			if err != nil {
				return Step{}, s, fmt.Errorf("invalid index %q: %w", f, err)
			}
			out.Indices = append(out.Indices, v)
		}
		return out, rest, nil
	}
	if kind, text, rest, err := parseName(s); err == nil {
		return Step{Op: kind, Kind: kind, Arg1: text}, rest, nil
	}
	return Step{}, s, fmt.Errorf("invalid value: %q", s)
}

// matchPrefix returns the leading match of re in s, if any, and the remainder
// of s following the match.
func matchPrefix(re *regexp.Regexp, s string) (match, rest string) {
	m := re.FindString(s)
	return m, s[len(m):]
}

func parseScript(s string) (text, rest string, _ error) {
	np := 1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			np++
		case ')':
			if np--; np == 0 {
				return s[:i], s[i+1:], nil
			}
		}
	}
	return "", s, errors.New("unbalanced parentheses")
}

var (
	wordRE  = regexp.MustCompile(`^(\w+)`)
	intRE   = regexp.MustCompile(`^-?\d+`)
	indexRE = regexp.MustCompile(`^-?\d+(?:,-?\d+)*`)
	quoteRE = regexp.MustCompile(`^'([^']*)'`)
)
