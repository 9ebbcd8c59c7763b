package syntax

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// categoryAliases maps long General_Category names to Go's short keys.
var categoryAliases = map[string]string{
	"Letter":                "L",
	"Cased_Letter":          "LC",
	"Uppercase_Letter":      "Lu",
	"Lowercase_Letter":      "Ll",
	"Titlecase_Letter":      "Lt",
	"Modifier_Letter":       "Lm",
	"Other_Letter":          "Lo",
	"Mark":                  "M",
	"Combining_Mark":        "M",
	"Nonspacing_Mark":       "Mn",
	"Spacing_Mark":          "Mc",
	"Enclosing_Mark":        "Me",
	"Number":                "N",
	"Decimal_Number":        "Nd",
	"digit":                 "Nd",
	"Letter_Number":         "Nl",
	"Other_Number":          "No",
	"Punctuation":           "P",
	"punct":                 "P",
	"Connector_Punctuation": "Pc",
	"Dash_Punctuation":      "Pd",
	"Open_Punctuation":      "Ps",
	"Close_Punctuation":     "Pe",
	"Initial_Punctuation":   "Pi",
	"Final_Punctuation":     "Pf",
	"Other_Punctuation":     "Po",
	"Symbol":                "S",
	"Math_Symbol":           "Sm",
	"Currency_Symbol":       "Sc",
	"Modifier_Symbol":       "Sk",
	"Other_Symbol":          "So",
	"Separator":             "Z",
	"Space_Separator":       "Zs",
	"Line_Separator":        "Zl",
	"Paragraph_Separator":   "Zp",
	"Other":                 "C",
	"Control":               "Cc",
	"cntrl":                 "Cc",
	"Format":                "Cf",
	"Surrogate":             "Cs",
	"Private_Use":           "Co",
	"Unassigned":            "Cn",
}

// scriptAliases maps the common four-letter script codes to Go's names.
var scriptAliases = map[string]string{
	"Arab": "Arabic",
	"Cyrl": "Cyrillic",
	"Deva": "Devanagari",
	"Grek": "Greek",
	"Hani": "Han",
	"Hebr": "Hebrew",
	"Hira": "Hiragana",
	"Kana": "Katakana",
	"Latn": "Latin",
	"Thai": "Thai",
	"Zinh": "Inherited",
	"Zyyy": "Common",
}

// binaryAliases maps binary property short names to Go's names.
var binaryAliases = map[string]string{
	"AHex":    "ASCII_Hex_Digit",
	"Bidi_C":  "Bidi_Control",
	"Dep":     "Deprecated",
	"Dia":     "Diacritic",
	"Ext":     "Extender",
	"Hex":     "Hex_Digit",
	"IDSB":    "IDS_Binary_Operator",
	"IDST":    "IDS_Trinary_Operator",
	"Ideo":    "Ideographic",
	"Join_C":  "Join_Control",
	"NChar":   "Noncharacter_Code_Point",
	"Pat_Syn": "Pattern_Syntax",
	"Pat_WS":  "Pattern_White_Space",
	"QMark":   "Quotation_Mark",
	"RI":      "Regional_Indicator",
	"SD":      "Soft_Dotted",
	"STerm":   "Sentence_Terminal",
	"Term":    "Terminal_Punctuation",
	"UIdeo":   "Unified_Ideograph",
	"VS":      "Variation_Selector",
	"WSpace":  "White_Space",
	"space":   "White_Space",
	"Alpha":   "Alphabetic",
	"Lower":   "Lowercase",
	"Upper":   "Uppercase",
}

var (
	casedLetterTable = rangetable.Merge(unicode.Lu, unicode.Ll, unicode.Lt)

	// Derived properties that Go's unicode package does not ship directly.
	derivedTables = map[string]*unicode.RangeTable{
		"Any":        anyTable,
		"ASCII":      asciiTable,
		"Alphabetic": rangetable.Merge(unicode.L, unicode.Nl, unicode.Other_Alphabetic),
		"Lowercase":  rangetable.Merge(unicode.Ll, unicode.Other_Lowercase),
		"Uppercase":  rangetable.Merge(unicode.Lu, unicode.Other_Uppercase),
	}
)

// lookupProperty resolves the body of a \p{...} escape. The body is either
// a lone name (a General_Category value or a binary property) or a
// name=value pair for General_Category or Script.
func lookupProperty(body string) (*unicode.RangeTable, bool) {
	name, value, hasValue := strings.Cut(body, "=")
	if hasValue {
		switch name {
		case "General_Category", "gc":
			return lookupCategory(value)
		case "Script", "sc", "Script_Extensions", "scx":
			return lookupScript(value)
		}
		return nil, false
	}
	if t, ok := lookupCategory(name); ok {
		return t, true
	}
	return lookupBinary(name)
}

func lookupCategory(name string) (*unicode.RangeTable, bool) {
	if long, ok := categoryAliases[name]; ok {
		name = long
	}
	if name == "LC" {
		return casedLetterTable, true
	}
	t, ok := unicode.Categories[name]
	return t, ok
}

func lookupScript(name string) (*unicode.RangeTable, bool) {
	if long, ok := scriptAliases[name]; ok {
		name = long
	}
	t, ok := unicode.Scripts[name]
	return t, ok
}

func lookupBinary(name string) (*unicode.RangeTable, bool) {
	if long, ok := binaryAliases[name]; ok {
		name = long
	}
	if t, ok := derivedTables[name]; ok {
		return t, true
	}
	// Other_* tables are contributory data, not properties.
	if strings.HasPrefix(name, "Other_") {
		return nil, false
	}
	t, ok := unicode.Properties[name]
	return t, ok
}
