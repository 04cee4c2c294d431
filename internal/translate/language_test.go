package translate

import "testing"

func TestLanguageLabel(t *testing.T) {
	tests := []struct {
		code, want string
	}{
		{"auto", "Detect Language"},
		{"hi", "Hindi"},
		{"ko", "Korean"},
		{"xx", "xx"},
	}
	for _, tt := range tests {
		if got := LanguageLabel(tt.code); got != tt.want {
			t.Errorf("LanguageLabel(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestNextLanguage(t *testing.T) {
	if got := NextLanguage("ko", true); got != "auto" {
		t.Errorf("wrap with auto = %q", got)
	}
	if got := NextLanguage("ko", false); got != "en" {
		t.Errorf("wrap without auto = %q", got)
	}
	if got := NextLanguage("en", false); got != "hi" {
		t.Errorf("next after en = %q", got)
	}
}

func TestNextStyle(t *testing.T) {
	if got := NextStyle("poetic"); got != "default" {
		t.Errorf("NextStyle(poetic) = %q", got)
	}
	if got := NextStyle("bogus"); got != "default" {
		t.Errorf("NextStyle(bogus) = %q", got)
	}
}

func TestSwap(t *testing.T) {
	r, ok := Request{Source: "en", Target: "hi"}.Swap()
	if !ok || r.Source != "hi" || r.Target != "en" {
		t.Errorf("swap = %+v, %v", r, ok)
	}
	if _, ok := (Request{Source: Auto, Target: "hi"}).Swap(); ok {
		t.Error("auto source must not swap")
	}
}
