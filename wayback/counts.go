package wayback

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Pre-compiled patterns for locale-aware count parsing.
var (
	subscriberSuffixPattern = regexp.MustCompile(`(?i)\s*subscribers?\s*$`)
	videoSuffixPattern      = regexp.MustCompile(`(?i)\s*videos?\s*$`)

	// "label":"1,234 likes" inside the serialized ytInitialData blob.
	likeLabelPattern = regexp.MustCompile(`"label":"([\d,]+) likes"`)

	// English aria-labels on modern and transitional-era pages.
	likesAriaPattern     = regexp.MustCompile(`^([\d.,]+) likes$`)
	likeAlongPattern     = regexp.MustCompile(`like this video along with ([\d.,]+) other people`)
	// First multi-digit run, with either thousand separator, in any locale's
	// aria-label ("wie 2.510 andere", "aiment cette vidéo 2 510", ...).
	multiDigitRunPattern = regexp.MustCompile(`(\d[\d.,]*\d|\d)`)
)

// suffix multipliers for abbreviated counts.
var countMultipliers = map[byte]int64{
	'K': 1_000,
	'M': 1_000_000,
	'B': 1_000_000_000,
}

// ParseSubscriberCount converts human-readable subscriber counts such as
// "1.2M subscribers", "1,234 subscribers" or "No subscribers" to an integer.
// It returns false on anything it cannot parse; it never errors.
func ParseSubscriberCount(text string) (int64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	if strings.HasPrefix(strings.ToLower(s), "no ") {
		return 0, true
	}

	s = strings.TrimSpace(subscriberSuffixPattern.ReplaceAllString(s, ""))
	if s == "" {
		return 0, false
	}

	last := s[len(s)-1]
	if last >= 'a' && last <= 'z' {
		last -= 'a' - 'A'
	}
	if mult, ok := countMultipliers[last]; ok {
		num := strings.ReplaceAll(strings.TrimSpace(s[:len(s)-1]), ",", "")
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}
		// Abbreviated counts carry at most one decimal place, so rounding
		// recovers the exact value float multiplication can land just under.
		return int64(math.Round(f * float64(mult))), true
	}

	n, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseVideoCount converts counts such as "1,234 videos" or "500" to an
// integer, returning false on parse failure.
func ParseVideoCount(text string) (int64, bool) {
	s := strings.TrimSpace(videoSuffixPattern.ReplaceAllString(strings.TrimSpace(text), ""))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// likeCountFromInitialData searches the re-serialized ytInitialData object
// for an accessibility label of the form "N likes". The first match wins.
func likeCountFromInitialData(data map[string]interface{}) (int64, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return 0, false
	}
	m := likeLabelPattern.FindSubmatch(raw)
	if m == nil {
		return 0, false
	}
	return parseSeparatedInt(string(m[1]))
}

// parseSeparatedInt parses an integer after stripping both '.' and ','
// thousand separators.
func parseSeparatedInt(s string) (int64, bool) {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// likeCountExtractors is the ordered HTML fallback chain for like counts.
// Each extractor is independent; the first non-absent result wins and parse
// failures fall through to the next pattern.
var likeCountExtractors = []func(*goquery.Document) (int64, bool){
	likeCountFromOldButton,
	likeCountFromOldButtonAria,
	likeCountFromFormattedString,
	likeCountFromLikeAlongLabel,
	likeCountFromAnyAriaLabel,
}

// likeCountFromHTML runs the five-pattern fallback chain over the page DOM.
func likeCountFromHTML(doc *goquery.Document) (int64, bool) {
	for _, extract := range likeCountExtractors {
		if n, ok := extract(doc); ok {
			return n, true
		}
	}
	return 0, false
}

// oldLikeButtons selects 2012-era like buttons, excluding the dislike
// variant whose class list also mentions "like".
func oldLikeButtons(doc *goquery.Document) *goquery.Selection {
	return doc.Find(".like-button-renderer-like-button").FilterFunction(
		func(_ int, s *goquery.Selection) bool {
			class, _ := s.Attr("class")
			return !strings.Contains(class, "dislike")
		})
}

func likeCountFromOldButton(doc *goquery.Document) (count int64, found bool) {
	oldLikeButtons(doc).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Find("span.yt-uix-button-content").First().Text())
		if text == "" {
			return true
		}
		if n, ok := parseSeparatedInt(text); ok {
			count, found = n, true
			return false
		}
		return true
	})
	return count, found
}

// likeCountFromOldButtonAria covers non-English transitional pages: the
// aria-label on the same button carries the count in the page's locale, so
// the first multi-digit run is taken without language-specific branching.
func likeCountFromOldButtonAria(doc *goquery.Document) (count int64, found bool) {
	oldLikeButtons(doc).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label, ok := s.Attr("aria-label")
		if !ok {
			return true
		}
		m := multiDigitRunPattern.FindString(label)
		if m == "" {
			return true
		}
		if n, ok := parseSeparatedInt(m); ok {
			count, found = n, true
			return false
		}
		return true
	})
	return count, found
}

func likeCountFromFormattedString(doc *goquery.Document) (count int64, found bool) {
	doc.Find("yt-formatted-string[aria-label]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label, _ := s.Attr("aria-label")
		m := likesAriaPattern.FindStringSubmatch(strings.TrimSpace(label))
		if m == nil {
			return true
		}
		if n, ok := parseSeparatedInt(m[1]); ok {
			count, found = n, true
			return false
		}
		return true
	})
	return count, found
}

func likeCountFromLikeAlongLabel(doc *goquery.Document) (count int64, found bool) {
	doc.Find("[aria-label]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label, _ := s.Attr("aria-label")
		m := likeAlongPattern.FindStringSubmatch(label)
		if m == nil {
			return true
		}
		if n, ok := parseSeparatedInt(m[1]); ok {
			count, found = n, true
			return false
		}
		return true
	})
	return count, found
}

// likeCountFromAnyAriaLabel is the broad last resort: any element whose
// aria-label is exactly "N likes".
func likeCountFromAnyAriaLabel(doc *goquery.Document) (count int64, found bool) {
	doc.Find("[aria-label]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label, _ := s.Attr("aria-label")
		m := likesAriaPattern.FindStringSubmatch(strings.TrimSpace(label))
		if m == nil {
			return true
		}
		if n, ok := parseSeparatedInt(m[1]); ok {
			count, found = n, true
			return false
		}
		return true
	})
	return count, found
}
