package lang

import (
	"strings"
	"unicode"

	"github.com/worawit/newslens/internal/model"
)

// thaiLexicon is the embedded dictionary for longest-match Thai
// segmentation. Thai has no whitespace word boundaries, so the
// tokenizer walks the text taking the longest dictionary word at each
// position and falls back to unknown runs between matches.
var thaiLexicon = []string{
	// function words (also stopwords, but needed as segmentation anchors)
	"ที่", "และ", "ใน", "ของ", "ได้", "มี", "ให้", "ไป", "มา", "จะ",
	"ว่า", "เป็น", "กับ", "แต่", "หรือ", "ก็", "ไม่", "ถึง", "จาก", "ด้วย",
	"อยู่", "นี้", "นั้น", "โดย", "แล้ว", "ซึ่ง", "อย่าง", "ทั้ง", "ต้อง", "เมื่อ",
	"คน", "การ", "ความ", "เขา", "เรา", "คือ",
	// government and politics
	"การเมือง", "รัฐบาล", "นโยบาย", "นายกรัฐมนตรี", "รัฐมนตรี", "รัฐสภา",
	"เลือกตั้ง", "ประชาธิปไตย", "รัฐธรรมนูญ", "คณะรัฐมนตรี", "ฝ่ายค้าน",
	"กระทรวง", "กรม", "พรรค", "องค์การ", "ราชการ", "ข้าราชการ",
	// places
	"ประเทศไทย", "ประเทศ", "กรุงเทพ", "กรุงเทพมหานคร", "จังหวัด", "อำเภอ",
	"ตำบล", "เมือง", "ภาคเหนือ", "ภาคใต้", "ภาคอีสาน", "เชียงใหม่", "ภูเก็ต",
	// institutions
	"บริษัท", "มหาวิทยาลัย", "โรงเรียน", "โรงพยาบาล", "ธนาคาร", "ตำรวจ",
	"ศาล", "ทหาร", "สำนักงาน",
	// news verbs and nouns
	"ประชุม", "ประกาศ", "แถลงข่าว", "แถลง", "เปิดเผย", "ลงนาม", "เกิดเหตุ",
	"เสียชีวิต", "บาดเจ็บ", "จับกุม", "สอบสวน", "อนุมัติ", "เสนอ", "พิจารณา",
	"ข่าว", "เหตุการณ์", "สถานการณ์", "โครงการ", "งบประมาณ", "มาตรการ",
	"เศรษฐกิจ", "สังคม", "ประชาชน", "ปัญหา", "ผลกระทบ", "รายงาน",
	// sentiment-bearing words (kept in sync with the polarity lexicon)
	"ดี", "สำเร็จ", "ประสบผลสำเร็จ", "ก้าวหน้า", "พัฒนา", "เจริญ", "ยินดี",
	"ชื่นชม", "แย่", "ล้มเหลว", "เสียหาย", "วิกฤต", "อันตราย", "เสียใจ",
	"โกรธ", "ปกติ", "ธรรมดา", "คงที่",
	// honorifics and titles (anchor entity patterns)
	"นาย", "นาง", "นางสาว", "ดร.", "น.ส.", "ศ.", "รศ.", "ผศ.", "พล.อ.",
	// time words
	"วันนี้", "เมื่อวาน", "พรุ่งนี้", "สัปดาห์", "เดือน", "ปี",
}

var (
	thaiDict       map[string]struct{}
	maxThaiWordLen int // in runes
)

func init() {
	thaiDict = make(map[string]struct{}, len(thaiLexicon))
	for _, w := range thaiLexicon {
		thaiDict[w] = struct{}{}
		if n := len([]rune(w)); n > maxThaiWordLen {
			maxThaiWordLen = n
		}
	}
}

// Tokenize splits text into normalized tokens for the given language
// profile, filtering stopwords and short tokens. Thai and mixed text
// run through dictionary segmentation; English uses letter/digit runs.
func Tokenize(text string, language model.Language) []string {
	if language == model.LanguageEnglish {
		return tokenizeEnglish(text)
	}
	return tokenizeThai(text)
}

func tokenizeEnglish(text string) []string {
	var tokens []string
	var run strings.Builder

	flush := func() {
		if run.Len() == 0 {
			return
		}
		tok := strings.ToLower(run.String())
		run.Reset()
		if len(tok) > 2 && !IsStopword(tok) {
			tokens = append(tokens, tok)
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			run.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func tokenizeThai(text string) []string {
	var tokens []string
	var latin strings.Builder

	flushLatin := func() {
		if latin.Len() == 0 {
			return
		}
		tok := strings.ToLower(latin.String())
		latin.Reset()
		if len(tok) > 2 && !IsStopword(tok) {
			tokens = append(tokens, tok)
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case isThaiRune(r):
			flushLatin()
			seg, n := segmentThaiRun(runes[i:])
			tokens = append(tokens, seg...)
			i += n
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			latin.WriteRune(r)
			i++
		default:
			flushLatin()
			i++
		}
	}
	flushLatin()
	return tokens
}

// segmentThaiRun consumes the leading run of Thai runes and returns the
// filtered tokens plus the number of runes consumed. Longest dictionary
// match wins at each position; runes between matches accumulate into
// unknown-word tokens.
func segmentThaiRun(runes []rune) ([]string, int) {
	end := 0
	for end < len(runes) && isThaiRune(runes[end]) {
		end++
	}

	var tokens []string
	var unknown []rune

	flushUnknown := func() {
		if len(unknown) == 0 {
			return
		}
		tok := string(unknown)
		unknown = unknown[:0]
		if len([]rune(tok)) > 1 && !IsStopword(tok) {
			tokens = append(tokens, tok)
		}
	}

	for i := 0; i < end; {
		matched := 0
		limit := maxThaiWordLen
		if rem := end - i; rem < limit {
			limit = rem
		}
		for l := limit; l >= 1; l-- {
			if _, ok := thaiDict[string(runes[i:i+l])]; ok {
				matched = l
				break
			}
		}
		if matched > 0 {
			flushUnknown()
			tok := string(runes[i : i+matched])
			if len([]rune(tok)) > 1 && !IsStopword(tok) {
				tokens = append(tokens, tok)
			}
			i += matched
		} else {
			unknown = append(unknown, runes[i])
			i++
		}
	}
	flushUnknown()
	return tokens, end
}
