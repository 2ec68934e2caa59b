package schema

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/wippyai/tl-codec/codec"
	tlerrors "github.com/wippyai/tl-codec/errors"
	"github.com/wippyai/tl-codec/ident"
)

// Compiler turns Go types into wire descriptors, caching results per
// type.
type Compiler struct {
	cache sync.Map // reflect.Type -> *Descriptor
}

// NewCompiler creates an empty Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

var defaultCompiler = NewCompiler()

// Compile builds (or fetches from cache) the descriptor for a Go type
// using the shared compiler.
func Compile(t reflect.Type) (*Descriptor, error) {
	return defaultCompiler.Compile(t)
}

var (
	int128Type       = reflect.TypeOf(codec.Int128{})
	uint128Type      = reflect.TypeOf(codec.Uint128{})
	unsizedBytesType = reflect.TypeOf(codec.UnsizedBytes(nil))
	identifiableType = reflect.TypeOf((*ident.Identifiable)(nil)).Elem()
)

// Compile builds the descriptor for a Go type. Pointer types compile as
// their element. Self-referential types (a struct holding a slice or
// map of itself) compile to descriptors that reference themselves.
func (c *Compiler) Compile(t reflect.Type) (*Descriptor, error) {
	if t == nil {
		return nil, tlerrors.New(tlerrors.PhaseCompile, tlerrors.KindNilPointer).
			Detail("Go type cannot be nil").
			Build()
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if cached, ok := c.cache.Load(t); ok {
		return cached.(*Descriptor), nil
	}

	d, err := c.compile(t, nil, make(map[reflect.Type]*Descriptor))
	if err != nil {
		return nil, err
	}

	c.cache.Store(t, d)
	return d, nil
}

// compile dispatches on Go kind. seen holds the partially built
// descriptor of every composite type on the current path, closing
// cycles instead of recursing into them.
func (c *Compiler) compile(t reflect.Type, path []string, seen map[reflect.Type]*Descriptor) (*Descriptor, error) {
	switch t.Kind() {
	case reflect.Bool:
		return &Descriptor{GoType: t, Kind: KindBool}, nil
	case reflect.Int8:
		return &Descriptor{GoType: t, Kind: KindInt8}, nil
	case reflect.Int16:
		return &Descriptor{GoType: t, Kind: KindInt16}, nil
	case reflect.Int32:
		return &Descriptor{GoType: t, Kind: KindInt32}, nil
	case reflect.Int64, reflect.Int:
		return &Descriptor{GoType: t, Kind: KindInt64}, nil
	case reflect.Uint8:
		return &Descriptor{GoType: t, Kind: KindUint8}, nil
	case reflect.Uint16:
		return &Descriptor{GoType: t, Kind: KindUint16}, nil
	case reflect.Uint32:
		return &Descriptor{GoType: t, Kind: KindUint32}, nil
	case reflect.Uint64, reflect.Uint:
		return &Descriptor{GoType: t, Kind: KindUint64}, nil
	case reflect.Float32:
		return &Descriptor{GoType: t, Kind: KindFloat32}, nil
	case reflect.Float64:
		return &Descriptor{GoType: t, Kind: KindFloat64}, nil
	case reflect.String:
		return &Descriptor{GoType: t, Kind: KindString}, nil
	case reflect.Slice:
		return c.compileSlice(t, path, seen)
	case reflect.Array:
		return c.compileArray(t, path, seen)
	case reflect.Map:
		return c.compileMap(t, path, seen)
	case reflect.Struct:
		return c.compileStruct(t, path, seen)
	default:
		return nil, tlerrors.New(tlerrors.PhaseCompile, tlerrors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("Go kind %s has no wire form", t.Kind()).
			Build()
	}
}

func (c *Compiler) compileSlice(t reflect.Type, path []string, seen map[reflect.Type]*Descriptor) (*Descriptor, error) {
	if t == unsizedBytesType {
		return &Descriptor{GoType: t, Kind: KindUnsizedBytes}, nil
	}
	if t.Elem().Kind() == reflect.Uint8 {
		return &Descriptor{GoType: t, Kind: KindBytes}, nil
	}
	if d, ok := seen[t]; ok {
		return d, nil
	}

	d := &Descriptor{GoType: t, Kind: KindVector}
	seen[t] = d
	elemPath := append(append([]string{}, path...), "[elem]")
	elem, err := c.compile(t.Elem(), elemPath, seen)
	if err != nil {
		return nil, err
	}
	d.Elem = elem
	return d, nil
}

func (c *Compiler) compileArray(t reflect.Type, path []string, seen map[reflect.Type]*Descriptor) (*Descriptor, error) {
	elemPath := append(append([]string{}, path...), "[elem]")
	elem, err := c.compile(t.Elem(), elemPath, seen)
	if err != nil {
		return nil, err
	}
	return &Descriptor{GoType: t, Kind: KindArray, Elem: elem, ArrayLen: t.Len()}, nil
}

func (c *Compiler) compileMap(t reflect.Type, path []string, seen map[reflect.Type]*Descriptor) (*Descriptor, error) {
	if t.Key().Kind() != reflect.String {
		return nil, tlerrors.TypeMismatch(path, t.String(), "map with string keys")
	}
	if d, ok := seen[t]; ok {
		return d, nil
	}

	d := &Descriptor{GoType: t, Kind: KindMap}
	seen[t] = d
	elemPath := append(append([]string{}, path...), "[value]")
	elem, err := c.compile(t.Elem(), elemPath, seen)
	if err != nil {
		return nil, err
	}
	d.Elem = elem
	return d, nil
}

func (c *Compiler) compileStruct(t reflect.Type, path []string, seen map[reflect.Type]*Descriptor) (*Descriptor, error) {
	switch t {
	case int128Type:
		return &Descriptor{GoType: t, Kind: KindInt128}, nil
	case uint128Type:
		return &Descriptor{GoType: t, Kind: KindUint128}, nil
	}
	if d, ok := seen[t]; ok {
		return d, nil
	}

	if isEnumShape(t) {
		return c.compileEnum(t, path, seen)
	}

	d := &Descriptor{GoType: t, Kind: KindStruct}
	seen[t] = d
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts := parseTag(f)
		if name == "-" {
			continue
		}
		if f.Type.Kind() == reflect.Ptr {
			return nil, tlerrors.New(tlerrors.PhaseCompile, tlerrors.KindUnsupported).
				Path(append(append([]string{}, path...), name)...).
				GoType(f.Type.String()).
				Detail("the wire has no form for absent values; pointer fields belong to enums only").
				Build()
		}
		if _, hasID := opts["id"]; hasID {
			return nil, tlerrors.New(tlerrors.PhaseCompile, tlerrors.KindUnsupported).
				Path(append(append([]string{}, path...), name)...).
				Detail("id tag on a non-pointer field; variant ids require an enum of pointer fields").
				Build()
		}

		fieldPath := append(append([]string{}, path...), name)
		ft, err := c.compile(f.Type, fieldPath, seen)
		if err != nil {
			return nil, err
		}
		d.Fields = append(d.Fields, Field{Name: name, Index: i, Type: ft})
	}

	if id, ok := typeIDOfType(t); ok {
		d.typeID = id
		d.hasID = true
	}
	return d, nil
}

func (c *Compiler) compileEnum(t reflect.Type, path []string, seen map[reflect.Type]*Descriptor) (*Descriptor, error) {
	d := &Descriptor{GoType: t, Kind: KindEnum}
	seen[t] = d
	ids := make(map[uint32]string)

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts := parseTag(f)
		if name == "-" {
			continue
		}

		idStr := opts["id"]
		id, err := strconv.ParseUint(strings.TrimPrefix(idStr, "0x"), 16, 32)
		if err != nil {
			return nil, tlerrors.New(tlerrors.PhaseCompile, tlerrors.KindNoTypeID).
				Path(append(append([]string{}, path...), name)...).
				GoType(t.String()).
				Detail("variant %q has no parseable id tag: %q", name, idStr).
				Build()
		}
		if _, dup := ids[uint32(id)]; dup {
			return nil, tlerrors.DuplicateTypeID(t.String(), uint32(id))
		}
		ids[uint32(id)] = name

		variantPath := append(append([]string{}, path...), name)
		vt, err := c.compile(f.Type.Elem(), variantPath, seen)
		if err != nil {
			return nil, err
		}
		d.Variants = append(d.Variants, Variant{Name: name, ID: uint32(id), Index: i, Type: vt})
	}

	if len(d.Variants) == 0 {
		return nil, tlerrors.New(tlerrors.PhaseCompile, tlerrors.KindUnsupported).
			Path(path...).
			GoType(t.String()).
			Detail("enum declares no variants").
			Build()
	}
	return d, nil
}

// isEnumShape reports whether a struct looks like an enum: at least one
// serializable field, every one a pointer carrying an id tag.
func isEnumShape(t reflect.Type) bool {
	n := 0
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts := parseTag(f)
		if name == "-" {
			continue
		}
		if f.Type.Kind() != reflect.Ptr {
			return false
		}
		if _, ok := opts["id"]; !ok {
			return false
		}
		n++
	}
	return n > 0
}

// parseTag splits a `tl` struct tag into the wire name and options.
// An absent tag yields the Go field name.
func parseTag(f reflect.StructField) (string, map[string]string) {
	tag := f.Tag.Get("tl")
	if tag == "" {
		return f.Name, nil
	}
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = f.Name
	}
	if name == "-" {
		return "-", nil
	}
	var opts map[string]string
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		if opts == nil {
			opts = make(map[string]string)
		}
		if k, v, ok := strings.Cut(p, "="); ok {
			opts[k] = v
		} else {
			opts[p] = ""
		}
	}
	return name, opts
}

// typeIDOfType resolves the id a struct type declares through the
// Identifiable interface, on either receiver form. The method must
// return a constant for the type.
func typeIDOfType(t reflect.Type) (uint32, bool) {
	if t.Implements(identifiableType) {
		return reflect.Zero(t).Interface().(ident.Identifiable).TypeID(), true
	}
	if reflect.PointerTo(t).Implements(identifiableType) {
		return reflect.New(t).Interface().(ident.Identifiable).TypeID(), true
	}
	return 0, false
}
