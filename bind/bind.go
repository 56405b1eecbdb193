// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package bind copies values from a document into Go structs, using a
// description of the struct fields derived by reflection.
//
// Each exported field of a struct is bound to the member of the document
// named by its "json" struct tag, or by the field name if the tag is absent.
// A tag of "-" excludes the field. A tag may be a dotted path, as accepted by
// doc.Get, to bind a field to a nested member.
//
// Scalar fields (strings, booleans, integers and floating point) are decoded
// from the text of the matching value. Struct fields bind recursively to
// objects, and slice fields bind to the members of an array or object in
// insertion order. Members that are missing or null leave the field unchanged.
package bind

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/creachadair/jdoc/doc"
	"github.com/valyala/fastjson/fastfloat"
)

// A Field describes the binding of a single struct field.
type Field struct {
	Name   string       // the document path bound to the field
	Index  int          // the field offset for reflect.Value.Field
	Offset uintptr      // the byte offset of the field in its struct
	Type   reflect.Type // the type of the field

	// ToText renders the field value of a struct. It is nil for struct and
	// slice fields.
	ToText func(reflect.Value) string

	// FromText decodes text into the field value of a struct. It is nil for
	// struct and slice fields.
	FromText func(reflect.Value, []byte) error
}

// IsScalar reports whether f binds a scalar value.
func (f Field) IsScalar() bool { return f.FromText != nil }

var fieldCache sync.Map // reflect.Type to []Field

// Fields reports the bindable fields of t, which must be a struct type or a
// pointer to a struct type. It reports an error if any exported field has a
// type that cannot be bound.
func Fields(t reflect.Type) ([]Field, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type %v is not a struct", t)
	}
	if fs, ok := fieldCache.Load(t); ok {
		return fs.([]Field), nil
	}
	var out []Field
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("json"); ok {
			if tag == "-" {
				continue
			} else if tag != "" {
				name = tag
			}
		}
		f := Field{Name: name, Index: i, Offset: sf.Offset, Type: sf.Type}
		if err := f.setCodec(sf.Type); err != nil {
			return nil, fmt.Errorf("field %q: %w", sf.Name, err)
		}
		out = append(out, f)
	}
	fs, _ := fieldCache.LoadOrStore(t, out)
	return fs.([]Field), nil
}

func (f *Field) setCodec(t reflect.Type) error {
	switch t.Kind() {
	case reflect.String:
		f.ToText = func(v reflect.Value) string { return v.String() }
		f.FromText = func(v reflect.Value, text []byte) error {
			v.SetString(string(text))
			return nil
		}
	case reflect.Bool:
		f.ToText = func(v reflect.Value) string { return strconv.FormatBool(v.Bool()) }
		f.FromText = func(v reflect.Value, text []byte) error {
			b, err := strconv.ParseBool(string(text))
			if err != nil {
				return err
			}
			v.SetBool(b)
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f.ToText = func(v reflect.Value) string { return strconv.FormatInt(v.Int(), 10) }
		f.FromText = func(v reflect.Value, text []byte) error {
			n, err := fastfloat.ParseInt64(string(text))
			if err != nil {
				return err
			} else if v.OverflowInt(n) {
				return fmt.Errorf("value %d overflows %v", n, v.Type())
			}
			v.SetInt(n)
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f.ToText = func(v reflect.Value) string { return strconv.FormatUint(v.Uint(), 10) }
		f.FromText = func(v reflect.Value, text []byte) error {
			n, err := fastfloat.ParseUint64(string(text))
			if err != nil {
				return err
			} else if v.OverflowUint(n) {
				return fmt.Errorf("value %d overflows %v", n, v.Type())
			}
			v.SetUint(n)
			return nil
		}
	case reflect.Float32, reflect.Float64:
		bits := t.Bits()
		f.ToText = func(v reflect.Value) string { return strconv.FormatFloat(v.Float(), 'g', -1, bits) }
		f.FromText = func(v reflect.Value, text []byte) error {
			x, err := fastfloat.Parse(string(text))
			if err != nil {
				return err
			}
			v.SetFloat(x)
			return nil
		}
	case reflect.Struct:
		// Checked when bound, so that recursive types are permitted.
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Struct {
			return nil
		}
		return (&Field{}).setCodec(t.Elem())
	default:
		return fmt.Errorf("unsupported type %v", t)
	}
	return nil
}

// Object binds the contents of v to the struct pointed to by dst.
// It reports an error if dst is not a non-nil pointer to a struct, if v is
// not an object, or if a member cannot be decoded into its field.
func Object(v doc.Value, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("destination must be a non-nil pointer")
	}
	return bindValue(v, rv.Elem(), "")
}

func bindStruct(v doc.Value, rv reflect.Value, path string) error {
	if v.Kind() != doc.Object {
		return fmt.Errorf("%s: cannot bind %v to %v", pathLabel(path), v.Kind(), rv.Type())
	}
	fields, err := Fields(rv.Type())
	if err != nil {
		return err
	}
	for _, f := range fields {
		elt := doc.Get(v, f.Name)
		if elt.IsNull() {
			continue
		}
		fpath := joinPath(path, f.Name)
		fv := rv.Field(f.Index)
		if f.IsScalar() {
			err = bindScalar(elt, fv, f.FromText, fpath)
		} else {
			err = bindValue(elt, fv, fpath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// bindValue binds v to rv, which must be settable.
func bindValue(v doc.Value, rv reflect.Value, path string) error {
	switch rv.Kind() {
	case reflect.Struct:
		return bindStruct(v, rv, path)

	case reflect.Slice:
		if !v.IsContainer() {
			return fmt.Errorf("%s: cannot bind %v to %v", pathLabel(path), v.Kind(), rv.Type())
		}
		out := reflect.MakeSlice(rv.Type(), v.Len(), v.Len())
		i := 0
		for key, elt := range v.Map().All() {
			if err := bindValue(elt, out.Index(i), joinPath(path, key.String())); err != nil {
				return err
			}
			i++
		}
		rv.Set(out)
		return nil
	}

	var f Field
	if err := f.setCodec(rv.Type()); err != nil {
		return fmt.Errorf("%s: %w", pathLabel(path), err)
	}
	return bindScalar(v, rv, f.FromText, path)
}

func bindScalar(v doc.Value, rv reflect.Value, fromText func(reflect.Value, []byte) error, path string) error {
	if v.IsContainer() {
		return fmt.Errorf("%s: cannot bind %v to %v", pathLabel(path), v.Kind(), rv.Type())
	}
	if err := fromText(rv, v.Text().AppendTo(nil)); err != nil {
		return fmt.Errorf("%s: %w", pathLabel(path), err)
	}
	return nil
}

// Format renders the scalar fields of the struct src, which may be a struct
// or a pointer to a struct, as "path=value" strings. Nested structs and
// slices are flattened with dotted paths.
func Format(src any) ([]string, error) {
	rv := reflect.ValueOf(src)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, errors.New("source is a nil pointer")
		}
		rv = rv.Elem()
	}
	return formatValue(nil, rv, "")
}

func formatValue(dst []string, rv reflect.Value, path string) ([]string, error) {
	switch rv.Kind() {
	case reflect.Struct:
		fields, err := Fields(rv.Type())
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			fv := rv.Field(f.Index)
			if f.IsScalar() {
				dst = append(dst, joinPath(path, f.Name)+"="+f.ToText(fv))
			} else if dst, err = formatValue(dst, fv, joinPath(path, f.Name)); err != nil {
				return nil, err
			}
		}
		return dst, nil

	case reflect.Slice:
		for i := range rv.Len() {
			var err error
			dst, err = formatValue(dst, rv.Index(i), joinPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
		}
		return dst, nil
	}

	var f Field
	if err := f.setCodec(rv.Type()); err != nil {
		return nil, fmt.Errorf("%s: %w", pathLabel(path), err)
	}
	return append(dst, path+"="+f.ToText(rv)), nil
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func pathLabel(path string) string {
	if path == "" {
		return "value"
	}
	return strconv.Quote(path)
}
