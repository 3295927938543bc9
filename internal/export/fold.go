package export

import "strings"

// asciiFoldTable maps the non-ASCII runes that commonly appear in CV text
// to ASCII replacements: German umlauts and European diacritics, dash and
// quote variants, and list glyphs. Runes outside the table are dropped.
var asciiFoldTable = map[rune]string{
	'ä': "ae", 'ö': "oe", 'ü': "ue", 'Ä': "Ae", 'Ö': "Oe", 'Ü': "Ue", 'ß': "ss",

	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'å': "a", 'ā': "a", 'ă': "a", 'ą': "a",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e", 'ē': "e", 'ė': "e", 'ę': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i", 'ī': "i", 'į': "i", 'ı': "i",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ø': "o", 'ō': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ū': "u", 'ů': "u",
	'ç': "c", 'ć': "c", 'č': "c",
	'ñ': "n", 'ń': "n", 'ň': "n",
	'š': "s", 'ś': "s", 'ş': "s",
	'ž': "z", 'ź': "z", 'ż': "z",
	'ý': "y", 'ÿ': "y",
	'ł': "l", 'đ': "d", 'ď': "d", 'ř': "r", 'ť': "t", 'ţ': "t", 'ğ': "g",

	'À': "A", 'Á': "A", 'Â': "A", 'Ã': "A", 'Å': "A", 'Ā': "A", 'Ă': "A", 'Ą': "A",
	'È': "E", 'É': "E", 'Ê': "E", 'Ë': "E", 'Ē': "E", 'Ė': "E", 'Ę': "E",
	'Ì': "I", 'Í': "I", 'Î': "I", 'Ï': "I", 'Ī': "I", 'Į': "I", 'İ': "I",
	'Ò': "O", 'Ó': "O", 'Ô': "O", 'Õ': "O", 'Ø': "O", 'Ō': "O",
	'Ù': "U", 'Ú': "U", 'Û': "U", 'Ū': "U", 'Ů': "U",
	'Ç': "C", 'Ć': "C", 'Č': "C",
	'Ñ': "N", 'Ń': "N", 'Ň': "N",
	'Š': "S", 'Ś': "S", 'Ş': "S",
	'Ž': "Z", 'Ź': "Z", 'Ż': "Z",
	'Ý': "Y",
	'Ł': "L", 'Đ': "D", 'Ď': "D", 'Ř': "R", 'Ť': "T", 'Ţ': "T", 'Ğ': "G",

	'—': "-", '–': "-", '‒': "-", '―': "-", '−': "-",
	'‘': "'", '’': "'", '‚': "'",
	'“': `"`, '”': `"`, '„': `"`, '«': `"`, '»': `"`,
	'…': "...",
	'•': "-", '◦': "-", '·': "-", '▪': "-", '●': "-",
	' ': " ", ' ': " ", ' ': " ",
}

// asciiFold reduces s to pure ASCII. Every byte of the result is < 0x80.
func asciiFold(s string) string {
	if isASCII(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if rep, ok := asciiFoldTable[r]; ok {
			b.WriteString(rep)
		}
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
