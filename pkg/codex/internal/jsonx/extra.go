// Package jsonx holds JSON helpers for payloads that carry fields this
// module does not model.
package jsonx

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Extra holds object members that have no Go field.
type Extra map[string]json.RawMessage

var fieldCache sync.Map // reflect.Type -> map[string]struct{}

// knownFields returns the JSON member names encoded by struct type t.
func knownFields(t reflect.Type) map[string]struct{} {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]struct{})
	}

	names := make(map[string]struct{}, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		names[name] = struct{}{}
	}
	fieldCache.Store(t, names)

	return names
}

// Split decodes data into known, a pointer to a struct without custom JSON
// methods, and returns the members it did not consume.
func Split(data []byte, known any) (Extra, error) {
	if err := json.Unmarshal(data, known); err != nil {
		return nil, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	for name := range knownFields(reflect.TypeOf(known)) {
		delete(all, name)
	}
	if len(all) == 0 {
		return nil, nil
	}

	return Extra(all), nil
}

// Merge encodes known and adds every extra member whose name is not a
// struct field of known.
func Merge(known any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	fields := knownFields(reflect.TypeOf(known))
	for name, value := range extra {
		if _, isField := fields[name]; isField {
			continue
		}
		all[name] = value
	}

	return json.Marshal(all)
}
