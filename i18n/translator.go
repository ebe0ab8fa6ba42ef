package i18n

import "sync/atomic"

// Translator retrieves localized messages for issue codes.
// data provides optional metadata to embed in the message (for example,
// "reason" or "op").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var base string
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_input":
			base = "スキーマ定義が不正です"
		case "internal_invariant":
			base = "内部不変条件に違反しました"
		case "parse_error":
			base = "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_input":
			base = "invalid schema input"
		case "internal_invariant":
			base = "internal invariant violated"
		case "parse_error":
			base = "parse error"
		}
	}
	if base == "" {
		base = code
	}
	if r := data["reason"]; r != "" {
		return base + ": " + r
	}
	return base
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return current.Load().tr.Message(code, data) }
