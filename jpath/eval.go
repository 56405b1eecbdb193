// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpath

import (
	"fmt"
	"strconv"

	"github.com/creachadair/jdoc/doc"
)

// Eval evaluates e against the document rooted at root, and returns the
// values selected in document order. An expression that selects nothing
// returns an empty slice without error. Filter and script steps are not
// supported, and Eval reports an error if e contains one.
func (e Expr) Eval(root doc.Value) ([]doc.Value, error) {
	cur := []doc.Value{root}
	for _, s := range e {
		var next []doc.Value
		for _, v := range cur {
			out, err := s.apply(next, v)
			if err != nil {
				return nil, err
			}
			next = out
		}
		cur = next
	}
	return cur, nil
}

// apply appends to dst the values selected by s from v.
func (s Step) apply(dst []doc.Value, v doc.Value) ([]doc.Value, error) {
	switch s.Op {
	case Member:
		if s.Kind == Wildcard {
			return children(dst, v), nil
		}
		return member(dst, v, s.Arg1), nil

	case Name, QName:
		return member(dst, v, s.Arg1), nil

	case Wildcard:
		return children(dst, v), nil

	case Recur:
		if s.Kind == Wildcard {
			return descendants(dst, v), nil
		}
		for _, d := range descendants([]doc.Value{v}, v) {
			dst = member(dst, d, s.Arg1)
		}
		return dst, nil

	case Index:
		if v.Kind() != doc.Array {
			return dst, nil
		}
		for _, i := range s.Indices {
			if e := v.Map().Index(i); e != nil {
				dst = append(dst, e.Value())
			}
		}
		return dst, nil

	case Slice:
		if v.Kind() != doc.Array {
			return dst, nil
		}
		n := v.Len()
		lo, err := sliceBound(s.Arg1, 0, n)
		if err != nil {
			return nil, err
		}
		hi, err := sliceBound(s.Arg2, n, n)
		if err != nil {
			return nil, err
		}
		m := v.Map()
		for i := lo; i < hi; i++ {
			dst = append(dst, m.Index(i).Value())
		}
		return dst, nil

	case Filter, Script:
		return nil, fmt.Errorf("operator %v is not supported", s.Op)
	}
	return nil, fmt.Errorf("invalid operator %v", s.Op)
}

// sliceBound parses a slice bound, returning def if text is empty.
// Negative bounds count from the end, and the result is clamped to [0, n].
func sliceBound(text string, def, n int) (int, error) {
	if text == "" {
		return def, nil
	}
	i, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid slice bound %q: %w", text, err)
	}
	if i < 0 {
		i += n
	}
	return min(max(i, 0), n), nil
}

func member(dst []doc.Value, v doc.Value, name string) []doc.Value {
	if !v.IsContainer() {
		return dst
	}
	if e := v.Map().Find(name); e != nil {
		dst = append(dst, e.Value())
	}
	return dst
}

func children(dst []doc.Value, v doc.Value) []doc.Value {
	if !v.IsContainer() {
		return dst
	}
	for elt := range v.Map().Values() {
		dst = append(dst, elt)
	}
	return dst
}

// descendants appends all the values nested inside v in preorder.
func descendants(dst []doc.Value, v doc.Value) []doc.Value {
	if !v.IsContainer() {
		return dst
	}
	for elt := range v.Map().Values() {
		dst = descendants(append(dst, elt), elt)
	}
	return dst
}
