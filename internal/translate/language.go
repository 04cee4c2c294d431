package translate

// Auto asks the backend to detect the source language.
const Auto = "auto"

// Language is a selectable language.
type Language struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Languages in menu order.
var Languages = []Language{
	{Auto, "Detect Language"},
	{"en", "English"},
	{"hi", "Hindi"},
	{"es", "Spanish"},
	{"fr", "French"},
	{"de", "German"},
	{"ja", "Japanese"},
	{"zh", "Chinese"},
	{"ar", "Arabic"},
	{"ru", "Russian"},
	{"ko", "Korean"},
}

// Styles in menu order. Only the llm backend honours anything but the default.
var Styles = []string{"default", "formal", "casual", "poetic"}

// LanguageLabel returns the display name for code, or code itself when unknown.
func LanguageLabel(code string) string {
	for _, l := range Languages {
		if l.Code == code {
			return l.Label
		}
	}
	return code
}

// ValidLanguage reports whether code is in the language table.
func ValidLanguage(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// ValidStyle reports whether s is a known style. Empty means default.
func ValidStyle(s string) bool {
	if s == "" {
		return true
	}
	for _, v := range Styles {
		if v == s {
			return true
		}
	}
	return false
}

// NextLanguage cycles through the table, skipping auto when allowAuto is false.
func NextLanguage(code string, allowAuto bool) string {
	idx := 0
	for i, l := range Languages {
		if l.Code == code {
			idx = i
			break
		}
	}
	for i := 1; i <= len(Languages); i++ {
		next := Languages[(idx+i)%len(Languages)]
		if next.Code == Auto && !allowAuto {
			continue
		}
		return next.Code
	}
	return code
}

// NextStyle cycles through Styles.
func NextStyle(s string) string {
	for i, v := range Styles {
		if v == s {
			return Styles[(i+1)%len(Styles)]
		}
	}
	return Styles[0]
}
