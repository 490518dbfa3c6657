package extract

import (
	"regexp"
	"strconv"
	"time"
)

// In-text date fallbacks for pages without structured metadata. Thai
// news bodies usually spell the month name with a Buddhist-era year.

var thaiMonths = map[string]time.Month{
	"มกราคม": time.January, "ม.ค.": time.January,
	"กุมภาพันธ์": time.February, "ก.พ.": time.February,
	"มีนาคม": time.March, "มี.ค.": time.March,
	"เมษายน": time.April, "เม.ย.": time.April,
	"พฤษภาคม": time.May, "พ.ค.": time.May,
	"มิถุนายน": time.June, "มิ.ย.": time.June,
	"กรกฎาคม": time.July, "ก.ค.": time.July,
	"สิงหาคม": time.August, "ส.ค.": time.August,
	"กันยายน": time.September, "ก.ย.": time.September,
	"ตุลาคม": time.October, "ต.ค.": time.October,
	"พฤศจิกายน": time.November, "พ.ย.": time.November,
	"ธันวาคม": time.December, "ธ.ค.": time.December,
}

var (
	thaiDateRe    = regexp.MustCompile(`(\d{1,2})\s+([ก-๛.]+)\s+(\d{4})`)
	numericDateRe = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`)
)

// firstTextDate scans body text for the first parseable date mention.
// Day-first ordering is assumed for numeric forms, matching Thai
// convention. Years above 2400 are Buddhist era and shifted by 543.
func firstTextDate(body string) *time.Time {
	if m := thaiDateRe.FindStringSubmatch(body); m != nil {
		if month, ok := thaiMonths[m[2]]; ok {
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			if t := makeDate(year, month, day); t != nil {
				return t
			}
		}
	}
	if m := numericDateRe.FindStringSubmatch(body); m != nil {
		day, _ := strconv.Atoi(m[1])
		monthNum, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if monthNum >= 1 && monthNum <= 12 {
			if t := makeDate(year, time.Month(monthNum), day); t != nil {
				return t
			}
		}
	}
	return nil
}

func makeDate(year int, month time.Month, day int) *time.Time {
	if year > 2400 {
		year -= 543 // Buddhist era
	}
	if year < 1900 || year > 2200 || day < 1 || day > 31 {
		return nil
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
