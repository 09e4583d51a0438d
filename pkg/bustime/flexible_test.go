package bustime

import (
	"encoding/json"
	"testing"
)

func TestFlexibleStringShapes(t *testing.T) {
	cases := []struct {
		name     string
		payload  string
		expected string
	}{
		{"plain string", `"GREENPOINT AV"`, "GREENPOINT AV"},
		{"array of strings", `["GREENPOINT AV", "second"]`, "GREENPOINT AV"},
		{"empty array", `[]`, ""},
		{"id object", `{"id": "MTA_1"}`, "MTA_1"},
		{"name object", `{"name": "GREENPOINT AV"}`, "GREENPOINT AV"},
		{"number", `42`, ""},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			var value FlexibleString
			if err := json.Unmarshal([]byte(testCase.payload), &value); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if value.String() != testCase.expected {
				t.Errorf("got %q, expected %q", value.String(), testCase.expected)
			}
		})
	}
}

func TestGroupNameResolve(t *testing.T) {
	singular := GroupName{Name: "DOWNTOWN", Names: []string{"ignored"}}
	if singular.Resolve() != "DOWNTOWN" {
		t.Errorf("singular name should win, got %q", singular.Resolve())
	}

	plural := GroupName{Names: []string{"FROM LIST"}}
	if plural.Resolve() != "FROM LIST" {
		t.Errorf("expected first of names list, got %q", plural.Resolve())
	}

	var empty GroupName
	if empty.Resolve() != "" {
		t.Errorf("expected empty string, got %q", empty.Resolve())
	}
}
