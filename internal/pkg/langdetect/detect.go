// Package langdetect 猜测一段文本的源语言，并把底层探测器的语言空间
// 收敛到系统的 ISO-639-1 小写语言码。
package langdetect

import (
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

// minDetectRunes 低于该长度的文本不做探测，直接回退
const minDetectRunes = 4

// langCodes 探测器语言到系统语言码的映射表，表外语言一律回退
var langCodes = map[whatlanggo.Lang]string{
	whatlanggo.Eng: "en",
	whatlanggo.Hin: "hi",
	whatlanggo.Ben: "bn",
	whatlanggo.Tam: "ta",
	whatlanggo.Tel: "te",
	whatlanggo.Mar: "mr",
	whatlanggo.Guj: "gu",
	whatlanggo.Kan: "kn",
	whatlanggo.Mal: "ml",
	whatlanggo.Pan: "pa",
	whatlanggo.Urd: "ur",
	whatlanggo.Spa: "es",
	whatlanggo.Fra: "fr",
	whatlanggo.Deu: "de",
	whatlanggo.Ita: "it",
	whatlanggo.Por: "pt",
	whatlanggo.Nld: "nl",
	whatlanggo.Rus: "ru",
	whatlanggo.Ukr: "uk",
	whatlanggo.Cmn: "zh",
	whatlanggo.Jpn: "ja",
	whatlanggo.Kor: "ko",
	whatlanggo.Arb: "ar",
	whatlanggo.Tur: "tr",
	whatlanggo.Vie: "vi",
	whatlanggo.Tha: "th",
	whatlanggo.Ell: "el",
	whatlanggo.Heb: "he",
}

// Detect 猜测文本语言，文本过短或无法判定时返回 fallback。
// 纯函数，永不报错。
func Detect(text, fallback string) string {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minDetectRunes {
		return fallback
	}

	info := whatlanggo.Detect(trimmed)
	code, ok := langCodes[info.Lang]
	if !ok {
		return fallback
	}
	return code
}
