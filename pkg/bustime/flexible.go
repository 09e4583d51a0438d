package bustime

import "encoding/json"

// The upstream API is not consistent about field shapes - direction IDs
// arrive as either a bare string or an {"id": ...} object, group names as
// either {"name": ...} or {"names": [...]}, and some SIRI fields as either
// a string or an array of strings. Each type below tries an ordered list
// of extraction rules and falls back to the zero value rather than failing
// the whole decode.

// FlexibleString decodes a JSON string, or the first element of a JSON
// array of strings, or an {"id": ...} / {"name": ...} object.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*f = FlexibleString(plain)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			*f = FlexibleString(list[0])
		}
		return nil
	}

	var object struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &object); err == nil {
		if object.ID != "" {
			*f = FlexibleString(object.ID)
		} else {
			*f = FlexibleString(object.Name)
		}
		return nil
	}

	// Unrecognised shape, leave the zero value
	return nil
}

func (f FlexibleString) String() string {
	return string(f)
}

// GroupName is the stop group name wrapper, seen as both
// {"name": "..."} and {"names": ["..."]}.
type GroupName struct {
	Name  string   `json:"name"`
	Names []string `json:"names"`
}

// Resolve returns the display name, preferring the singular field.
func (g GroupName) Resolve() string {
	if g.Name != "" {
		return g.Name
	}
	if len(g.Names) > 0 {
		return g.Names[0]
	}

	return ""
}
