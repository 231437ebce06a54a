package common

import "testing"

func TestMatchKeywordRegex(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		text    string
		want    bool
		wantErr bool
	}{
		{name: "literal match", pattern: "amazon", text: "AMAZON PURCHASE", want: true},
		{name: "no match", pattern: "netflix", text: "AMAZON PURCHASE", want: false},
		{name: "alternation", pattern: "uber (eats|trip)", text: "UBER EATS ORDER", want: true},
		{name: "invalid pattern", pattern: "(unclosed", text: "anything", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchKeywordRegex(tt.pattern, tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MatchKeywordRegex() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("MatchKeywordRegex() = %v, want %v", got, tt.want)
			}
		})
	}
}
