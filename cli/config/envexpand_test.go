package config

import "testing"

func TestExpandEnv(t *testing.T) {
	t.Setenv("WC_SET", "real")
	t.Setenv("WC_EMPTY", "")
	t.Setenv("WC_HOOK_A", "alice")
	t.Setenv("WC_HOOK_B", "bob")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"set var", "url: ${WC_SET}", "url: real"},
		{"unset var", "url: ${WC_UNSET_12345}", "url: "},
		{"default when unset", "url: ${WC_UNSET_12345:-fallback}", "url: fallback"},
		{"default ignored when set", "url: ${WC_SET:-fallback}", "url: real"},
		{"default when empty", "url: ${WC_EMPTY:-fallback}", "url: fallback"},
		{"multiple vars", "${WC_HOOK_A}:${WC_HOOK_B}", "alice:bob"},
		{"no vars", "no variables here", "no variables here"},
		{"bare dollar untouched", "cost: $5 and $WC_SET", "cost: $5 and $WC_SET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.input); got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandJSONEnv_EscapesValues(t *testing.T) {
	t.Setenv("WC_TOKEN", `abc"def\ghi`)

	got := expandJSONEnv(`{"headers": {"Authorization": "Bearer ${WC_TOKEN}"}}`)
	want := `{"headers": {"Authorization": "Bearer abc\"def\\ghi"}}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
