package remap

import (
	"reflect"
	"strings"
	"sync"
)

const tagName = "remap"

type structMetadata struct {
	fields           []Field
	fieldsByName     map[string]*Field
	fieldsByJSONName map[string]*Field
}

// metadataCache holds *structMetadata per struct type. Metadata is a pure
// function of the type, so one cache serves every mapper.
var metadataCache sync.Map

func typeMetadata(typ reflect.Type) *structMetadata {
	if cached, ok := metadataCache.Load(typ); ok {
		return cached.(*structMetadata)
	}
	fc := countFields(typ, make(map[reflect.Type]bool))
	meta := &structMetadata{fields: make([]Field, 0, fc), fieldsByName: make(map[string]*Field, fc), fieldsByJSONName: make(map[string]*Field, fc)}
	buildFieldMetadata(typ, meta, nil, false, make(map[reflect.Type]bool))
	meta.fields = dominantFields(meta.fields)
	for i := range meta.fields {
		fi := &meta.fields[i]
		meta.fieldsByName[fi.Name] = fi
		if fi.JSONName != "" {
			meta.fieldsByJSONName[fi.JSONName] = fi
		}
	}
	actual, _ := metadataCache.LoadOrStore(typ, meta)
	return actual.(*structMetadata)
}

func (m *structMetadata) lookup(name string) (*Field, bool) {
	if f, ok := m.fieldsByName[name]; ok {
		return f, true
	}
	f, ok := m.fieldsByJSONName[name]
	return f, ok
}

func countFields(typ reflect.Type, path map[reflect.Type]bool) int {
	path[typ] = true
	defer delete(path, typ)
	c := 0
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Anonymous {
			ft := derefType(f.Type)
			if ft.Kind() == reflect.Struct && !path[ft] {
				c += countFields(ft, path)
				continue
			}
		}
		if f.PkgPath != "" {
			continue
		}
		c++
	}
	return c
}

// buildFieldMetadata flattens embedded structs. path holds the struct types
// being flattened; an embedded type already on it (type Node struct{ *Node })
// is kept as a plain field.
func buildFieldMetadata(typ reflect.Type, meta *structMetadata, prefix []int, viaPointer bool, path map[reflect.Type]bool) {
	path[typ] = true
	defer delete(path, typ)
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		idx := append(append([]int(nil), prefix...), i)
		if f.Anonymous && f.Tag.Get(tagName) == "" {
			ft := f.Type
			ptr := ft.Kind() == reflect.Pointer
			if ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && !path[ft] {
				buildFieldMetadata(ft, meta, idx, viaPointer || ptr, path)
				continue
			}
		}
		if f.PkgPath != "" {
			continue
		}
		tag := f.Tag.Get(tagName)
		jsonName := ""
		if jt, ok := f.Tag.Lookup("json"); ok {
			if j := strings.IndexByte(jt, ','); j >= 0 {
				jt = jt[:j]
			}
			if jt != "-" {
				jsonName = jt
			}
		}
		meta.fields = append(meta.fields, Field{
			Name:       f.Name,
			JSONName:   jsonName,
			Index:      idx,
			Type:       f.Type,
			Ignored:    tag == "ignore" || tag == "-",
			viaPointer: viaPointer,
		})
	}
}

// dominantFields applies Go's promotion rule: of several fields sharing a name
// the shallowest wins, and a tie at the shallowest depth hides them all.
func dominantFields(fields []Field) []Field {
	depth := make(map[string]int, len(fields))
	count := make(map[string]int, len(fields))
	for _, f := range fields {
		d, seen := depth[f.Name]
		switch {
		case !seen || len(f.Index) < d:
			depth[f.Name] = len(f.Index)
			count[f.Name] = 1
		case len(f.Index) == d:
			count[f.Name]++
		}
	}
	out := fields[:0]
	for _, f := range fields {
		if len(f.Index) == depth[f.Name] && count[f.Name] == 1 {
			out = append(out, f)
		}
	}
	return out
}
