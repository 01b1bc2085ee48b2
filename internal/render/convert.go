package render

import "fmt"

// ConversionError reports a recognized key whose value has the wrong type.
// Missing keys are never an error; only present-but-mistyped ones are.
type ConversionError struct {
	Key  string
	Want string
	Got  interface{}
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("render output key %q: want %s, got %T", e.Key, e.Want, e.Got)
}

// Convert walks the recognized keys of a script's output in a fixed order
// and extracts each into the Document. Unrecognized keys are ignored so
// scripts may keep internal data in the same map.
func Convert(out map[string]interface{}) (Document, error) {
	var doc Document

	for _, key := range []string{"title", "color", "url", "thumbnail", "field", "footer"} {
		v, ok := out[key]
		if !ok {
			continue
		}
		switch key {
		case "title":
			s, err := asString(key, v)
			if err != nil {
				return Document{}, err
			}
			doc.Title = &s
		case "color":
			n, err := asInt(key, v)
			if err != nil {
				return Document{}, err
			}
			doc.Color = &n
		case "url":
			s, err := asString(key, v)
			if err != nil {
				return Document{}, err
			}
			doc.URL = &s
		case "thumbnail":
			s, err := asString(key, v)
			if err != nil {
				return Document{}, err
			}
			doc.Thumbnail = &s
		case "field":
			f, err := asField(key, v)
			if err != nil {
				return Document{}, err
			}
			doc.Field = &f
		case "footer":
			s, err := asString(key, v)
			if err != nil {
				return Document{}, err
			}
			doc.Footer = &s
		}
	}
	return doc, nil
}

func asString(key string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &ConversionError{Key: key, Want: "string", Got: v}
	}
	return s, nil
}

// asInt accepts the signed integer kinds a script can plausibly produce.
// Floats and numeric strings are rejected: no implicit coercion.
func asInt(key string, v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, &ConversionError{Key: key, Want: "signed integer", Got: v}
	}
}

// asField expects a two-element (header, body) pair of strings. Scripts
// built with interpreted Go hand it over as a slice.
func asField(key string, v interface{}) (Field, error) {
	wrongType := func() (Field, error) {
		return Field{}, &ConversionError{Key: key, Want: "pair of strings", Got: v}
	}
	switch pair := v.(type) {
	case []string:
		if len(pair) != 2 {
			return wrongType()
		}
		return Field{Header: pair[0], Body: pair[1]}, nil
	case [2]string:
		return Field{Header: pair[0], Body: pair[1]}, nil
	case []interface{}:
		if len(pair) != 2 {
			return wrongType()
		}
		header, ok := pair[0].(string)
		if !ok {
			return wrongType()
		}
		body, ok := pair[1].(string)
		if !ok {
			return wrongType()
		}
		return Field{Header: header, Body: body}, nil
	default:
		return wrongType()
	}
}
