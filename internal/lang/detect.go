package lang

import "github.com/worawit/newslens/internal/model"

// Detect returns the dominant language of text by counting Thai
// consonants against Latin letters. Equal counts mean mixed content;
// mixed documents use the Thai tokenizer profile since it also handles
// embedded Latin runs.
func Detect(text string) model.Language {
	var thai, latin int
	for _, r := range text {
		switch {
		case r >= 0x0E01 && r <= 0x0E2E: // Thai consonants ก-ฮ
			thai++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}

	switch {
	case thai > latin:
		return model.LanguageThai
	case latin > thai:
		return model.LanguageEnglish
	default:
		return model.LanguageMixed
	}
}

// isThaiRune reports whether r is in the Thai Unicode block.
func isThaiRune(r rune) bool {
	return r >= 0x0E01 && r <= 0x0E5B
}
