// Package wayback recovers structured video and channel metadata from
// archived YouTube page snapshots. Archived pages span more than a decade of
// markup generations, so every extraction path is best-effort: strategies are
// tried in priority order and failures degrade to sparse results instead of
// errors.
package wayback

import (
	"encoding/json"
	"regexp"
)

// maxScanWindow bounds the balanced-brace scan so corrupt or enormous pages
// cannot stall an extraction.
const maxScanWindow = 5_000_000

// Markers for the two JSON blobs YouTube embeds in watch and channel pages.
var (
	playerResponsePattern = regexp.MustCompile(`ytInitialPlayerResponse\s*=\s*\{`)
	initialDataPattern    = regexp.MustCompile(`ytInitialData\s*=\s*\{`)
)

// ExtractJSONObject returns the well-formed {...} object starting at start,
// honoring string and escape state so quoted braces do not affect nesting
// depth. It returns false when html[start] is not '{' or when the object does
// not close within the scan window.
func ExtractJSONObject(html string, start int) (string, bool) {
	if start < 0 || start >= len(html) || html[start] != '{' {
		return "", false
	}

	end := len(html)
	if limit := start + maxScanWindow; limit < end {
		end = limit
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < end; i++ {
		c := html[i]

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return html[start : i+1], true
				}
			}
		}
	}

	return "", false
}

// extractMarkedObject locates the first occurrence of a marker pattern and
// returns the balanced JSON object that follows it.
func extractMarkedObject(html string, marker *regexp.Regexp) (string, bool) {
	loc := marker.FindStringIndex(html)
	if loc == nil {
		return "", false
	}
	// The pattern ends on the object's opening brace.
	return ExtractJSONObject(html, loc[1]-1)
}

// playerResponse parses the embedded ytInitialPlayerResponse blob into a
// generic JSON value. Parse failures are treated as absence.
func playerResponse(html string) (map[string]interface{}, bool) {
	return parseMarkedObject(html, playerResponsePattern)
}

// initialData parses the embedded ytInitialData blob.
func initialData(html string) (map[string]interface{}, bool) {
	return parseMarkedObject(html, initialDataPattern)
}

func parseMarkedObject(html string, marker *regexp.Regexp) (map[string]interface{}, bool) {
	raw, ok := extractMarkedObject(html, marker)
	if !ok {
		return nil, false
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

// Safe navigation over generic JSON values. Every lookup returns absence on a
// missing key or type mismatch instead of panicking, which keeps the
// extractors readable across YouTube's many markup generations.

// navMap descends through nested objects and returns the map at the end of
// the key path.
func navMap(v interface{}, keys ...string) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	for _, key := range keys {
		next, ok := m[key].(map[string]interface{})
		if !ok {
			return nil, false
		}
		m = next
	}
	return m, true
}

// navString returns the string value at the end of the key path.
func navString(v interface{}, keys ...string) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	parent, ok := navMap(v, keys[:len(keys)-1]...)
	if !ok {
		return "", false
	}
	s, ok := parent[keys[len(keys)-1]].(string)
	return s, ok
}

// navSlice returns the array value at the end of the key path.
func navSlice(v interface{}, keys ...string) ([]interface{}, bool) {
	if len(keys) == 0 {
		return nil, false
	}
	parent, ok := navMap(v, keys[:len(keys)-1]...)
	if !ok {
		return nil, false
	}
	s, ok := parent[keys[len(keys)-1]].([]interface{})
	return s, ok
}
