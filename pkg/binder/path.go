package binder

import (
	"net/http"
	"reflect"
)

// Path binds router path parameters to fields tagged `path:"name"`.
// With chi: binder.Path(chi.URLParam).
func Path(param func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		values := make(map[string][]string)
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
			rt := rv.Elem().Type()
			for i := range rt.NumField() {
				f := rt.Field(i)
				if f.Tag.Get("path") == "" {
					continue
				}
				name, skip := parseFieldTag(f, "path")
				if skip {
					continue
				}
				if val := param(r, name); val != "" {
					values[name] = []string{val}
				}
			}
		}
		return bindToStruct(v, "path", values, ErrFailedToParsePath)
	}
}
