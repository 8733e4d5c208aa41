package fonts

import (
	"sort"
	"strings"
	"unicode"
)

var vocabulary = map[string]string{
	"송 품 장":   "DELIVERY NOTE",
	"출하일시":    "Delivery Date",
	"밀양산내지소":  "Miryang Branch",
	"수신":      "To",
	"생산자":     "Producer",
	"품명":      "Product",
	"규격":      "Spec",
	"계":       "Total",
	"계좌번호":    "Account",
	"농협":      "NH Bank",
	"강민준 기사":  "Driver: Min Jun Kang",
	"강민준":     "Min Jun Kang",
	"H.P":     "Mobile",
	"사과":      "Apple",
	"감":       "Persimmon",
	"깻잎":      "Perilla Leaf",
	"단감":      "Sweet Persimmon",
	"약시":      "Yak-si",
	"대봉":      "Dae-bong",
	"정품":      "Premium",
	"바라":      "Bara",
	"총 운임료":   "Total Fee",
	"운임료":     "Shipping Fee",
	"미지정":     "Unassigned",
	"부산청과":    "Busan Cheonggwa",
	"항도청과":    "Hangdo Cheonggwa",
	"엄궁농협공판장": "Eomgung NH Market",
	"반여농협공판장": "Banyeo NH Market",
	"중앙청과":    "Jungang Cheonggwa",
	"동부청과":    "Dongbu Cheonggwa",
}

var replacer = newReplacer(vocabulary)

// strings.Replacer tries old strings in argument order at each position, so longer
// phrases go first to win over their single-syllable parts.
func newReplacer(words map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(words))
	for k := range words {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, words[k])
	}
	return strings.NewReplacer(pairs...)
}

// Transliterate renders s in characters the built-in PDF fonts can encode: known
// document vocabulary becomes English, any other Hangul becomes a space, runs of
// whitespace collapse, and an empty result reads "N/A".
func Transliterate(s string) string {
	out := replacer.Replace(s)
	out = strings.Map(func(r rune) rune {
		if isHangul(r) {
			return ' '
		}
		return r
	}, out)

	out = strings.Join(strings.Fields(out), " ")
	if out == "" {
		return "N/A"
	}
	return out
}

// ContainsHangul reports whether s has any Hangul characters.
func ContainsHangul(s string) bool {
	for _, r := range s {
		if isHangul(r) {
			return true
		}
	}
	return false
}

func isHangul(r rune) bool {
	return unicode.Is(unicode.Hangul, r)
}
