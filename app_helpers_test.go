package main

import "testing"

func TestEventString(t *testing.T) {
	tests := []struct {
		name   string
		data   []any
		want   string
		wantOK bool
	}{
		{name: "bare string", data: []any{" abc "}, want: "abc", wantOK: true},
		{name: "id field", data: []any{map[string]any{"id": "f-1"}}, want: "f-1", wantOK: true},
		{name: "surface id field", data: []any{map[string]any{"surfaceId": "s-1"}}, want: "s-1", wantOK: true},
		{name: "number id", data: []any{map[string]any{"id": 7}}, want: "7", wantOK: true},
		{name: "empty", data: nil},
		{name: "nil payload", data: []any{nil}},
		{name: "blank string", data: []any{"  "}},
		{name: "map without id", data: []any{map[string]any{"other": "x"}}},
		{name: "unsupported type", data: []any{42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := eventString(tt.data)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("eventString() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{value: nil, want: ""},
		{value: "s-1", want: "s-1"},
		{value: 7, want: "7"},
		{value: 2.5, want: "2.5"},
	}
	for _, tt := range tests {
		if got := toString(tt.value); got != tt.want {
			t.Errorf("toString(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestNonNil(t *testing.T) {
	if got := nonNil(nil); got == nil || len(got) != 0 {
		t.Fatalf("nonNil(nil) = %#v, want empty non-nil", got)
	}
	in := []string{"a"}
	if got := nonNil(in); &got[0] != &in[0] {
		t.Fatal("nonNil copied a non-nil list")
	}
}
