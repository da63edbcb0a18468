package llm

import "testing"

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"clean text", "A refined prompt.", "A refined prompt."},
		{"surrounding whitespace", "  \n text \t ", "text"},
		{"sequence markers", "<s>refined</s>", "refined"},
		{"instruction brackets", "[INST]refined[/INST]", "refined"},
		{
			"everything at once",
			" <s>[INST] Build a detailed todo app prompt. [/INST]</s>\n",
			"Build a detailed todo app prompt.",
		},
		{"repeated tokens", "<s><s>text</s></s>", "text"},
		{"only tokens", "<s>[INST][/INST]</s>", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Sanitize(tt.raw); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
