package main

import (
	"fmt"
	"strings"
)

// eventIDKeys are the payload fields accepted as an event's identifier.
var eventIDKeys = []string{"id", "surfaceId"}

// eventString extracts the identifier carried by a frontend event: either a
// bare string or an object with an id field.
func eventString(data []any) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	var raw any
	switch v := data[0].(type) {
	case nil:
		return "", false
	case string:
		raw = v
	case map[string]any:
		for _, key := range eventIDKeys {
			if value, ok := v[key]; ok {
				raw = value
				break
			}
		}
	default:
		return "", false
	}
	id := strings.TrimSpace(toString(raw))
	return id, id != ""
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	default:
		return fmt.Sprintf("%v", value)
	}
}

// nonNil keeps empty lists from reaching the frontend as null.
func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
