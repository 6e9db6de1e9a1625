package llm

import "testing"

func TestExtractFirstJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prosa alrededor", `평가 결과: {"score":4} 입니다`, `{"score":4}`},
		{"anidado", `{"a":{"b":2}} {"c":3}`, `{"a":{"b":2}}`},
		{"llave en string", `{"reasoning":"uso de } en texto","score":3}`, `{"reasoning":"uso de } en texto","score":3}`},
		{"comilla escapada", `{"r":"dijo \"}\"","s":1}`, `{"r":"dijo \"}\"","s":1}`},
		{"sin json", "no json here", ""},
		{"incompleto", `{"a":1`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractFirstJSONObject(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	if got := CleanJSONResponse("\uFEFF```\n{}\n```  "); got != "{}" {
		t.Fatalf("expected {}, got %q", got)
	}
	if got := CleanJSONResponse("   "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
