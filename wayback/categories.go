package wayback

// categoryIDs maps YouTube's human-readable category display names to their
// numeric category-ID strings. The table is fixed and never mutated at
// runtime; lookups are one-directional.
var categoryIDs = map[string]string{
	"Film & Animation":      "1",
	"Autos & Vehicles":      "2",
	"Music":                 "10",
	"Pets & Animals":        "15",
	"Sports":                "17",
	"Short Movies":          "18",
	"Travel & Events":       "19",
	"Gaming":                "20",
	"Videoblogging":         "21",
	"People & Blogs":        "22",
	"Comedy":                "23",
	"Entertainment":         "24",
	"News & Politics":       "25",
	"Howto & Style":         "26",
	"Education":             "27",
	"Science & Technology":  "28",
	"Nonprofits & Activism": "29",
}

// CategoryID resolves a category display name to its numeric ID string.
func CategoryID(displayName string) (string, bool) {
	id, ok := categoryIDs[displayName]
	return id, ok
}
