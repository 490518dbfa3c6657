package nlp

import (
	"regexp"
	"sort"
	"strings"

	"github.com/worawit/newslens/internal/model"
)

// gazetteerEntry maps a surface alias to its canonical identity.
type gazetteerEntry struct {
	Canonical string
	Type      model.EntityType
}

// EntityExtractor finds person/organization/location mentions using a
// curated gazetteer plus pattern rules, and normalizes each mention to
// a canonical form for cross-article matching.
type EntityExtractor struct {
	gazetteer map[string]gazetteerEntry // keyed by lower-cased alias

	thaiPerson   *regexp.Regexp
	thaiOrg      *regexp.Regexp
	thaiLocation *regexp.Regexp
	capRun       *regexp.Regexp
}

// NewEntityExtractor creates an extractor with the built-in gazetteer.
func NewEntityExtractor() *EntityExtractor {
	e := &EntityExtractor{
		gazetteer: make(map[string]gazetteerEntry),

		// Thai honorific/title prefixes anchor person mentions since
		// capitalization carries no signal in Thai script.
		thaiPerson:   regexp.MustCompile(`(นาย|นางสาว|นาง|น\.ส\.|ดร\.|ศ\.|รศ\.|ผศ\.|พล\.อ\.)\s?[ก-ฮ][ก-๛]*(?:\s[ก-ฮ][ก-๛]*)?`),
		thaiOrg:      regexp.MustCompile(`(กระทรวง|กรม|องค์การ|บริษัท|มหาวิทยาลัย|โรงเรียน|พรรค|ธนาคาร)[ก-๛]+`),
		thaiLocation: regexp.MustCompile(`(จังหวัด|อำเภอ|ตำบล|ประเทศ)[ก-๛]+|กรุงเทพ(?:มหานคร)?`),
		capRun:       regexp.MustCompile(`\b[A-Z][a-z]+(?:[\s-][A-Z][a-z]+)+\b`),
	}

	add := func(canonical string, typ model.EntityType, aliases ...string) {
		for _, a := range aliases {
			e.gazetteer[strings.ToLower(a)] = gazetteerEntry{Canonical: canonical, Type: typ}
		}
	}

	// Locations
	add("Bangkok", model.EntityLocation, "bangkok", "กรุงเทพ", "กรุงเทพมหานคร", "กรุงเทพฯ")
	add("Thailand", model.EntityLocation, "thailand", "ประเทศไทย")
	add("Chiang Mai", model.EntityLocation, "chiang mai", "เชียงใหม่")
	add("Phuket", model.EntityLocation, "phuket", "ภูเก็ต")
	add("Myanmar", model.EntityLocation, "myanmar", "เมียนมา", "พม่า")
	add("Laos", model.EntityLocation, "laos", "ลาว")
	add("Cambodia", model.EntityLocation, "cambodia", "กัมพูชา")
	add("Vietnam", model.EntityLocation, "vietnam", "เวียดนาม")
	add("China", model.EntityLocation, "china", "จีน")
	add("Japan", model.EntityLocation, "japan", "ญี่ปุ่น")
	add("United States", model.EntityLocation, "united states", "สหรัฐ", "สหรัฐอเมริกา")

	// Organizations
	add("United Nations", model.EntityOrganization, "united nations", "สหประชาชาติ")
	add("ASEAN", model.EntityOrganization, "asean", "อาเซียน")
	add("World Health Organization", model.EntityOrganization, "world health organization", "who")
	add("Bank of Thailand", model.EntityOrganization, "bank of thailand", "ธนาคารแห่งประเทศไทย")
	add("Pheu Thai Party", model.EntityOrganization, "pheu thai party", "pheu thai", "พรรคเพื่อไทย")
	add("Move Forward Party", model.EntityOrganization, "move forward party", "พรรคก้าวไกล")
	add("Royal Thai Police", model.EntityOrganization, "royal thai police", "สำนักงานตำรวจแห่งชาติ")

	return e
}

// span is a candidate match inside the source text.
type span struct {
	start, end int
	entity     model.Entity
}

// Extract returns the entity mentions found in text. Overlapping
// candidates are resolved longest-match-wins.
func (e *EntityExtractor) Extract(text string, language model.Language) []model.Entity {
	var spans []span

	// Gazetteer lookup works on the lower-cased text for all profiles.
	lower := strings.ToLower(text)
	for alias, entry := range e.gazetteer {
		for idx := 0; ; {
			pos := strings.Index(lower[idx:], alias)
			if pos < 0 {
				break
			}
			start := idx + pos
			if !wordBounded(lower, start, start+len(alias)) {
				idx = start + len(alias)
				continue
			}
			spans = append(spans, span{
				start: start,
				end:   start + len(alias),
				entity: model.Entity{
					Surface:   text[start : start+len(alias)],
					Canonical: entry.Canonical,
					Type:      entry.Type,
				},
			})
			idx = start + len(alias)
		}
	}

	if language == model.LanguageThai || language == model.LanguageMixed {
		spans = append(spans, e.matchThaiPersons(text)...)
		spans = append(spans, e.matchPattern(text, e.thaiOrg, model.EntityOrganization)...)
		spans = append(spans, e.matchPattern(text, e.thaiLocation, model.EntityLocation)...)
	}
	if language == model.LanguageEnglish || language == model.LanguageMixed {
		spans = append(spans, e.matchCapRuns(text)...)
	}

	return resolveSpans(spans)
}

func (e *EntityExtractor) matchPattern(text string, re *regexp.Regexp, typ model.EntityType) []span {
	var spans []span
	for _, loc := range re.FindAllStringIndex(text, -1) {
		surface := strings.TrimSpace(text[loc[0]:loc[1]])
		spans = append(spans, span{
			start: loc[0],
			end:   loc[1],
			entity: model.Entity{
				Surface:   surface,
				Canonical: canonicalThai(surface, typ),
				Type:      typ,
			},
		})
	}
	return spans
}

// thaiNameStops are verbs and particles that commonly follow a name in
// news copy. A second matched word starting with one of these begins
// the sentence's predicate, not a surname.
var thaiNameStops = []string{
	"กล่าว", "แถลง", "เสนอ", "เผย", "ระบุ", "ยืนยัน", "ประกาศ", "ชี้",
	"เรียกร้อง", "สั่ง", "ตอบ", "ปฏิเสธ", "ยอมรับ", "เดินทาง", "เข้าร่วม",
	"ให้", "รับ", "เป็น", "มี", "ไม่", "จะ", "ได้", "ถูก", "ว่า", "ซึ่ง", "และ",
}

// matchThaiPersons finds honorific-anchored person mentions. The
// pattern admits an optional second name word; Thai has no
// capitalization cue, so a trailing word that starts a known predicate
// is cut back out of the span.
func (e *EntityExtractor) matchThaiPersons(text string) []span {
	var spans []span
	for _, loc := range e.thaiPerson.FindAllStringIndex(text, -1) {
		surface := trimNamePredicate(text[loc[0]:loc[1]])
		spans = append(spans, span{
			start: loc[0],
			end:   loc[0] + len(surface),
			entity: model.Entity{
				Surface:   surface,
				Canonical: canonicalThai(surface, model.EntityPerson),
				Type:      model.EntityPerson,
			},
		})
	}
	return spans
}

// trimNamePredicate drops the final word of a person match when it is
// a predicate anchor. The result is always a prefix of the input.
func trimNamePredicate(surface string) string {
	fields := strings.Fields(surface)
	if len(fields) < 2 {
		return surface
	}
	last := fields[len(fields)-1]
	for _, stop := range thaiNameStops {
		if strings.HasPrefix(last, stop) {
			return strings.TrimSpace(strings.TrimSuffix(surface, last))
		}
	}
	return surface
}

// matchCapRuns treats runs of two or more capitalized words as entity
// candidates, typed by suffix keyword or defaulting to person.
func (e *EntityExtractor) matchCapRuns(text string) []span {
	var spans []span
	for _, loc := range e.capRun.FindAllStringIndex(text, -1) {
		surface := text[loc[0]:loc[1]]
		if _, known := e.gazetteer[strings.ToLower(surface)]; known {
			continue // gazetteer pass already produced this span
		}
		typ := model.EntityPerson
		switch {
		case hasOrgSuffix(surface):
			typ = model.EntityOrganization
		case hasLocationSuffix(surface):
			typ = model.EntityLocation
		}
		spans = append(spans, span{
			start: loc[0],
			end:   loc[1],
			entity: model.Entity{
				Surface:   surface,
				Canonical: Canonicalize(surface),
				Type:      typ,
			},
		})
	}
	return spans
}

var orgSuffixes = []string{"party", "ministry", "university", "company", "corporation", "organization", "bank", "commission", "council", "authority", "association"}

var locationSuffixes = []string{"province", "district", "city", "island"}

func hasOrgSuffix(s string) bool {
	low := strings.ToLower(s)
	for _, suf := range orgSuffixes {
		if strings.HasSuffix(low, suf) {
			return true
		}
	}
	return false
}

func hasLocationSuffix(s string) bool {
	low := strings.ToLower(s)
	for _, suf := range locationSuffixes {
		if strings.HasSuffix(low, suf) {
			return true
		}
	}
	return false
}

// resolveSpans drops candidates fully or partially covered by a longer
// match, then deduplicates by canonical form.
func resolveSpans(spans []span) []model.Entity {
	sort.Slice(spans, func(i, j int) bool {
		li, lj := spans[i].end-spans[i].start, spans[j].end-spans[j].start
		if li != lj {
			return li > lj
		}
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].entity.Canonical < spans[j].entity.Canonical
	})

	var kept []span
	for _, s := range spans {
		overlaps := false
		for _, k := range kept {
			if s.start < k.end && k.start < s.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, s)
		}
	}

	seen := make(map[string]struct{}, len(kept))
	var entities []model.Entity
	sort.Slice(kept, func(i, j int) bool { return kept[i].start < kept[j].start })
	for _, s := range kept {
		if _, dup := seen[s.entity.Canonical]; dup {
			continue
		}
		seen[s.entity.Canonical] = struct{}{}
		entities = append(entities, s.entity)
	}
	return entities
}

// wordBounded rejects gazetteer hits embedded inside larger Latin
// words ("who" inside "whole"). Thai aliases have no such boundary.
func wordBounded(s string, start, end int) bool {
	isLetter := func(b byte) bool {
		return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
	}
	if start > 0 && isLetter(s[start-1]) && isLetter(s[start]) {
		return false
	}
	if end < len(s) && isLetter(s[end-1]) && isLetter(s[end]) {
		return false
	}
	return true
}

// Canonicalize normalizes a Latin-script surface form: whitespace
// collapsed, case folded.
func Canonicalize(surface string) string {
	return strings.ToLower(strings.Join(strings.Fields(surface), " "))
}

var thaiHonorifics = []string{"นางสาว", "น.ส.", "นาย", "นาง", "ดร.", "ศ.", "รศ.", "ผศ.", "พล.อ."}

// canonicalThai strips the honorific from person mentions so the same
// name matches across articles regardless of title, and collapses
// internal whitespace.
func canonicalThai(surface string, typ model.EntityType) string {
	s := surface
	if typ == model.EntityPerson {
		for _, h := range thaiHonorifics {
			if strings.HasPrefix(s, h) {
				s = strings.TrimSpace(strings.TrimPrefix(s, h))
				break
			}
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
