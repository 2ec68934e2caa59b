package schema

import (
	"reflect"
	"sort"
)

// HintsFor computes the ordered variant hint list a decoder needs to
// read back the wire form of v: one name per enum, in the depth-first
// order encoding visits them. Feeding the result to Unmarshal makes
// enum round trips mechanical instead of hand-counted.
func HintsFor(v any) ([]string, error) {
	val, d, err := valueAndDescriptor(v)
	if err != nil {
		return nil, err
	}
	var hints []string
	if err := collectHints(d, val, &hints); err != nil {
		return nil, err
	}
	return hints, nil
}

func collectHints(d *Descriptor, v reflect.Value, hints *[]string) error {
	switch d.Kind {
	case KindVector:
		for i := 0; i < v.Len(); i++ {
			if err := collectHints(d.Elem, v.Index(i), hints); err != nil {
				return err
			}
		}
	case KindArray:
		for i := 0; i < d.ArrayLen; i++ {
			if err := collectHints(d.Elem, v.Index(i), hints); err != nil {
				return err
			}
		}
	case KindMap:
		// match the sorted order encodeMap writes in
		keys := make([]string, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			keys = append(keys, iter.Key().String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			kv := v.MapIndex(reflect.ValueOf(k).Convert(d.GoType.Key()))
			if err := collectHints(d.Elem, kv, hints); err != nil {
				return err
			}
		}
	case KindStruct:
		for _, f := range d.Fields {
			if err := collectHints(f.Type, v.Field(f.Index), hints); err != nil {
				return err
			}
		}
	case KindEnum:
		variant, err := d.activeVariant(v)
		if err != nil {
			return err
		}
		*hints = append(*hints, variant.Name)
		return collectHints(variant.Type, v.Field(variant.Index).Elem(), hints)
	}
	return nil
}
