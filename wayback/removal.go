package wayback

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Removal reasons produced by the classifier.
const (
	ReasonTitleOnlyYouTube  = "title_only_youtube"
	ReasonTitleDashYouTube  = "title_dash_youtube"
	ReasonStatusError       = "playability_status_error"
	ReasonStatusUnplayable  = "playability_status_unplayable"
	ReasonStatusLogin       = "playability_status_login_required"
	ReasonVideoUnavailable  = "text_video_unavailable"
	ReasonRemovedByUploader = "text_removed_by_uploader"
	ReasonVideoPrivate      = "text_video_private"
	ReasonCopyrightClaim    = "text_copyright_claim"
	ReasonTOSViolation      = "text_tos_violation"
	ReasonAccountTerminated = "text_account_terminated"
)

// playabilityStatusReasons maps playabilityStatus.status values to removal
// reasons.
var playabilityStatusReasons = map[string]string{
	"ERROR":          ReasonStatusError,
	"UNPLAYABLE":     ReasonStatusUnplayable,
	"LOGIN_REQUIRED": ReasonStatusLogin,
}

// removalPhrases is scanned in order against the lowercased page; the first
// match wins.
var removalPhrases = []struct {
	phrase string
	reason string
}{
	{"video unavailable", ReasonVideoUnavailable},
	{"removed by the uploader", ReasonRemovedByUploader},
	{"this video is private", ReasonVideoPrivate},
	{"copyright claim", ReasonCopyrightClaim},
	{"violating youtube", ReasonTOSViolation},
	{"terms of service", ReasonTOSViolation},
	{"account associated with this video has been terminated", ReasonAccountTerminated},
}

// IsRemovalNotice classifies an archived page as YouTube's removal
// placeholder. It never panics: internal parse failures fail open and the
// page is assumed extractable. The returned reason is empty when removed is
// false.
func IsRemovalNotice(html string) (removed bool, reason string) {
	defer func() {
		if recover() != nil {
			removed, reason = false, ""
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		// Real video markup overrides every removal signal.
		if doc.Find(`meta[property="og:video:url"]`).Length() > 0 {
			return false, ""
		}

		// A bare "YouTube" title is the oldest removal stub.
		switch strings.TrimSpace(doc.Find("title").First().Text()) {
		case "YouTube":
			return true, ReasonTitleOnlyYouTube
		case "- YouTube":
			return true, ReasonTitleDashYouTube
		}
	}

	if pr, ok := playerResponse(html); ok {
		if status, ok := navString(pr, "playabilityStatus", "status"); ok {
			if r, ok := playabilityStatusReasons[status]; ok {
				return true, r
			}
		}
	}

	lower := strings.ToLower(html)
	for _, p := range removalPhrases {
		if strings.Contains(lower, p.phrase) {
			return true, p.reason
		}
	}

	return false, ""
}
