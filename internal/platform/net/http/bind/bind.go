// Package bind turns request bodies and query strings into validated structs
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	perr "opendash/internal/platform/errors"
)

// MaxBody caps a JSON request body
const MaxBody = 1 << 20

// ParseJSON decodes one JSON object from the body into T and validates it
// Unknown fields and trailing data are rejected; an empty body is only fine on GET
func ParseJSON[T any](r *http.Request) (T, error) {
	var out T
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBody+1))
	_ = r.Body.Close()
	if err != nil {
		return out, perr.Wrap(err, perr.ErrorCodeJSON, "read body")
	}
	if len(body) > MaxBody {
		return out, perr.JSONErrf("body exceeds %d bytes", MaxBody)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		if r.Method == http.MethodGet {
			return out, nil
		}
		return out, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, perr.JSONErrf("invalid JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return out, perr.JSONErrf("unexpected data after JSON object")
	}
	if err := Validate(out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// ParseQuery fills the `query` tagged fields of T then validates it
// Fields may be string, bool, any int kind or []string; lists accept commas or repeats
func ParseQuery[T any](r *http.Request) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		return out, perr.Internalf("bind: %T is not a struct", out)
	}

	q := r.URL.Query()
	for i := range rv.NumField() {
		sf := rv.Type().Field(i)
		name := sf.Tag.Get("query")
		vals := q[name]
		if name == "" || name == "-" || !sf.IsExported() || len(vals) == 0 {
			continue
		}
		if err := assign(rv.Field(i), vals); err != nil {
			return out, perr.WithField(perr.InvalidArgf("%s %v", name, err), name)
		}
	}
	if err := Validate(out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func assign(f reflect.Value, vals []string) error {
	first := strings.TrimSpace(vals[0])
	switch f.Kind() {
	case reflect.String:
		f.SetString(first)
	case reflect.Bool:
		if first == "" {
			f.SetBool(true) // ?flag
			return nil
		}
		b, err := strconv.ParseBool(first)
		if err != nil {
			return errors.New("must be true or false")
		}
		f.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(first, 10, f.Type().Bits())
		if err != nil {
			return errors.New("must be an integer")
		}
		f.SetInt(n)
	case reflect.Slice:
		if f.Type().Elem().Kind() != reflect.String {
			return errors.New("has an unsupported list type")
		}
		var items []string
		for _, v := range vals {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					items = append(items, part)
				}
			}
		}
		f.Set(reflect.ValueOf(items))
	default:
		return errors.New("has an unsupported type")
	}
	return nil
}
