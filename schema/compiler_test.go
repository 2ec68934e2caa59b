package schema

import (
	"errors"
	"reflect"
	"testing"

	"github.com/wippyai/tl-codec/codec"
	tlerrors "github.com/wippyai/tl-codec/errors"
	"github.com/wippyai/tl-codec/ident"
)

type point struct {
	X int32 `tl:"x"`
	Y int32 `tl:"y"`
}

func (point) TypeID() uint32 { return 0xdeadbeef }

type plain struct {
	Name  string
	Count uint16
	note  string
	Skip  int32 `tl:"-"`
}

type shape struct {
	Circle *float64 `tl:"circle,id=0x0badf00d"`
	Square *int32   `tl:"square,id=0xbaaaaaad"`
}

type dupShape struct {
	A *int32 `tl:"a,id=0x1"`
	B *int64 `tl:"b,id=0x1"`
}

type node struct {
	Label    string `tl:"label"`
	Children []node `tl:"children"`
}

type registry map[string]registry

func TestCompile_RecursiveStruct(t *testing.T) {
	d, err := Compile(reflect.TypeOf(node{}))
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind != KindStruct || len(d.Fields) != 2 {
		t.Fatalf("descriptor = %+v", d)
	}
	children := d.Fields[1].Type
	if children.Kind != KindVector {
		t.Fatalf("children kind = %v", children.Kind)
	}
	if children.Elem != d {
		t.Error("vector element should close the cycle back to the struct descriptor")
	}
}

func TestCompile_RecursiveMap(t *testing.T) {
	d, err := Compile(reflect.TypeOf(registry{}))
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind != KindMap {
		t.Fatalf("kind = %v", d.Kind)
	}
	if d.Elem != d {
		t.Error("map value should close the cycle back to the map descriptor")
	}
}

func TestCompile_Primitives(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want Kind
	}{
		{"bool", true, KindBool},
		{"int8", int8(0), KindInt8},
		{"int", int(0), KindInt64},
		{"uint", uint(0), KindUint64},
		{"float32", float32(0), KindFloat32},
		{"string", "", KindString},
		{"bytes", []byte(nil), KindBytes},
		{"unsized", codec.UnsizedBytes(nil), KindUnsizedBytes},
		{"int128", codec.Int128{}, KindInt128},
		{"uint128", codec.Uint128{}, KindUint128},
		{"vector", []int32(nil), KindVector},
		{"array", [4]uint8{}, KindArray},
		{"map", map[string]int32(nil), KindMap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Compile(reflect.TypeOf(tt.v))
			if err != nil {
				t.Fatal(err)
			}
			if d.Kind != tt.want {
				t.Errorf("kind = %v, want %v", d.Kind, tt.want)
			}
		})
	}
}

func TestCompile_Struct(t *testing.T) {
	d, err := Compile(reflect.TypeOf(plain{}))
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind != KindStruct {
		t.Fatalf("kind = %v", d.Kind)
	}
	if len(d.Fields) != 2 {
		t.Fatalf("fields = %d, want 2 (unexported and skipped dropped)", len(d.Fields))
	}
	if d.Fields[0].Name != "Name" || d.Fields[1].Name != "Count" {
		t.Errorf("field names = %q, %q", d.Fields[0].Name, d.Fields[1].Name)
	}
	if d.HasTypeID() {
		t.Error("plain struct declares no id")
	}
}

func TestCompile_StructWithTypeID(t *testing.T) {
	d, err := Compile(reflect.TypeOf(point{}))
	if err != nil {
		t.Fatal(err)
	}
	if !d.HasTypeID() {
		t.Fatal("point implements Identifiable")
	}
	ids := d.TypeIDs()
	if len(ids) != 1 || ids[0] != 0xdeadbeef {
		t.Errorf("ids = %#x", ids)
	}
}

func TestCompile_Enum(t *testing.T) {
	d, err := Compile(reflect.TypeOf(shape{}))
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind != KindEnum {
		t.Fatalf("kind = %v, want enum", d.Kind)
	}
	names := d.VariantNames()
	if len(names) != 2 || names[0] != "circle" || names[1] != "square" {
		t.Errorf("names = %v", names)
	}
	ids := d.TypeIDs()
	if ids[0] != 0x0badf00d || ids[1] != 0xbaaaaaad {
		t.Errorf("ids = %#x", ids)
	}
	if v, ok := d.VariantByID(0xbaaaaaad); !ok || v.Name != "square" {
		t.Errorf("VariantByID = %+v, %v", v, ok)
	}
}

type namedShape struct {
	Circle *float64 `tl:"circle,id=0x0badf00d"`
	Square *int32   `tl:"square,id=0xbaaaaaad"`
}

func (namedShape) VariantName() string { return "circle" }

func TestDescriptor_VariantNameOf(t *testing.T) {
	d, err := Compile(reflect.TypeOf(shape{}))
	if err != nil {
		t.Fatal(err)
	}
	n := int32(4)
	name, err := d.VariantNameOf(reflect.ValueOf(shape{Square: &n}))
	if err != nil || name != "square" {
		t.Errorf("got %q, %v", name, err)
	}

	// a value implementing ident.VariantNamer answers for itself
	d, err = Compile(reflect.TypeOf(namedShape{}))
	if err != nil {
		t.Fatal(err)
	}
	name, err = d.VariantNameOf(reflect.ValueOf(namedShape{}))
	if err != nil || name != "circle" {
		t.Errorf("got %q, %v", name, err)
	}
}

func TestCompile_DuplicateVariantID(t *testing.T) {
	_, err := Compile(reflect.TypeOf(dupShape{}))
	if !errors.Is(err, &tlerrors.Error{Phase: tlerrors.PhaseCompile, Kind: tlerrors.KindDuplicateTypeID}) {
		t.Errorf("err = %v, want duplicate_type_id", err)
	}
}

func TestCompile_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{"chan", make(chan int)},
		{"func", func() {}},
		{"complex", complex64(0)},
		{"int keyed map", map[int]string(nil)},
		{"pointer field outside enum", struct{ P *int32 }{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(reflect.TypeOf(tt.v)); err == nil {
				t.Error("compile should fail")
			}
		})
	}
}

func TestCompile_CacheReturnsSameDescriptor(t *testing.T) {
	c := NewCompiler()
	d1, err := c.Compile(reflect.TypeOf(point{}))
	if err != nil {
		t.Fatal(err)
	}
	d2, err := c.Compile(reflect.TypeOf(&point{}))
	if err != nil {
		t.Fatal(err)
	}
	if d1 != d2 {
		t.Error("pointer and value types should share a cached descriptor")
	}
}

func TestDescriptor_BoolIDs(t *testing.T) {
	d, err := Compile(reflect.TypeOf(false))
	if err != nil {
		t.Fatal(err)
	}
	ids := d.TypeIDs()
	if len(ids) != 2 || ids[0] != ident.BoolTrueID || ids[1] != ident.BoolFalseID {
		t.Errorf("ids = %#x", ids)
	}
	id, err := d.TypeIDOf(reflect.ValueOf(true))
	if err != nil || id != ident.BoolTrueID {
		t.Errorf("got %#x, %v", id, err)
	}
}
