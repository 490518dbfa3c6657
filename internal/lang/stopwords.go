package lang

// Stopword lists. The English set follows the reference list used by
// the upstream processor; the Thai set covers the highest-frequency
// function words.

var englishStopwords = map[string]struct{}{}

var thaiStopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "is", "was", "are", "were", "be", "been",
		"have", "has", "had", "will", "would", "could", "should", "may",
		"might", "this", "that", "these", "those", "it", "its", "as", "not",
		"he", "she", "they", "we", "you", "his", "her", "their", "our",
		"said", "also", "more", "after", "into", "over", "about",
	} {
		englishStopwords[w] = struct{}{}
	}

	for _, w := range []string{
		"ที่", "และ", "ใน", "ของ", "ได้", "มี", "ให้", "ไป", "มา", "จะ",
		"ว่า", "เป็น", "กับ", "แต่", "หรือ", "ก็", "ไม่", "ถึง", "จาก", "ด้วย",
		"อยู่", "นี้", "นั้น", "โดย", "แล้ว", "ซึ่ง", "อย่าง", "ทั้ง", "ต้อง", "เมื่อ",
		"คน", "การ", "ความ", "ๆ", "ค่ะ", "ครับ", "นะ", "เขา", "เรา", "คือ",
	} {
		thaiStopwords[w] = struct{}{}
	}
}

// IsStopword reports whether token is a stopword in either language.
func IsStopword(token string) bool {
	if _, ok := englishStopwords[token]; ok {
		return true
	}
	_, ok := thaiStopwords[token]
	return ok
}
