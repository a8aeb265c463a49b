package wayback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRemovalNotice(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		removed bool
		reason  string
	}{
		{
			name:    "title only youtube",
			html:    `<html><head><title>YouTube</title></head><body></body></html>`,
			removed: true,
			reason:  ReasonTitleOnlyYouTube,
		},
		{
			name:    "title dash youtube",
			html:    `<html><head><title>- YouTube</title></head><body></body></html>`,
			removed: true,
			reason:  ReasonTitleDashYouTube,
		},
		{
			name:    "normal title is not a stub",
			html:    `<html><head><title>My Video - YouTube</title></head><body></body></html>`,
			removed: false,
		},
		{
			name: "playability error",
			html: `<html><head><title>t</title></head><body><script>` +
				`var ytInitialPlayerResponse = {"playabilityStatus": {"status": "ERROR"}};` +
				`</script></body></html>`,
			removed: true,
			reason:  ReasonStatusError,
		},
		{
			name: "playability unplayable",
			html: `<html><head><title>t</title></head><script>` +
				`var ytInitialPlayerResponse = {"playabilityStatus": {"status": "UNPLAYABLE"}};</script></html>`,
			removed: true,
			reason:  ReasonStatusUnplayable,
		},
		{
			name: "playability login required",
			html: `<html><head><title>t</title></head><script>` +
				`var ytInitialPlayerResponse = {"playabilityStatus": {"status": "LOGIN_REQUIRED"}};</script></html>`,
			removed: true,
			reason:  ReasonStatusLogin,
		},
		{
			name: "playability OK is not removal",
			html: `<html><head><title>t</title></head><script>` +
				`var ytInitialPlayerResponse = {"playabilityStatus": {"status": "OK"}};</script></html>`,
			removed: false,
		},
		{
			name: "malformed player response falls through to body scan",
			html: `<html><head><title>t</title></head><script>` +
				`var ytInitialPlayerResponse = {"playabilityStatus": broken};</script>` +
				`<body>Video unavailable</body></html>`,
			removed: true,
			reason:  ReasonVideoUnavailable,
		},
		{
			name:    "body text video unavailable",
			html:    `<html><head><title>t</title></head><body><p>Video unavailable</p></body></html>`,
			removed: true,
			reason:  ReasonVideoUnavailable,
		},
		{
			name:    "removed by uploader",
			html:    `<html><head><title>t</title></head><body>This video has been removed by the uploader</body></html>`,
			removed: true,
			reason:  ReasonRemovedByUploader,
		},
		{
			name:    "private video",
			html:    `<html><head><title>t</title></head><body>This video is private.</body></html>`,
			removed: true,
			reason:  ReasonVideoPrivate,
		},
		{
			name:    "copyright claim",
			html:    `<html><head><title>t</title></head><body>removed due to a copyright claim</body></html>`,
			removed: true,
			reason:  ReasonCopyrightClaim,
		},
		{
			name:    "tos violation via violating youtube",
			html:    `<html><head><title>t</title></head><body>removed for violating YouTube's policy</body></html>`,
			removed: true,
			reason:  ReasonTOSViolation,
		},
		{
			name:    "tos violation via terms of service",
			html:    `<html><head><title>t</title></head><body>violated the Terms of Service</body></html>`,
			removed: true,
			reason:  ReasonTOSViolation,
		},
		{
			name:    "account terminated",
			html:    `<html><head><title>t</title></head><body>The account associated with this video has been terminated</body></html>`,
			removed: true,
			reason:  ReasonAccountTerminated,
		},
		{
			name:    "phrase order first match wins",
			html:    `<html><head><title>t</title></head><body>Video unavailable: removed by the uploader</body></html>`,
			removed: true,
			reason:  ReasonVideoUnavailable,
		},
		{
			name:    "clean page",
			html:    `<html><head><title>My Video</title></head><body>watch this</body></html>`,
			removed: false,
		},
		{
			name:    "empty input",
			html:    "",
			removed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			removed, reason := IsRemovalNotice(tt.html)
			assert.Equal(t, tt.removed, removed)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestIsRemovalNoticeVideoURLOverride(t *testing.T) {
	// og:video:url is definitive proof of real video markup, even when
	// removal signals co-occur in the same document.
	html := `<html><head>` +
		`<title>YouTube</title>` +
		`<meta property="og:video:url" content="https://www.youtube.com/embed/abc123">` +
		`</head><body>Video unavailable</body></html>`

	removed, reason := IsRemovalNotice(html)
	assert.False(t, removed)
	assert.Empty(t, reason)
}

func TestIsRemovalNoticeNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"<",
		"<html",
		strings.Repeat("<div>", 500),
		"\x00\x01\x02 garbage \xff",
		`<title>YouTube`,
		`{{{{"`,
	}
	for _, html := range inputs {
		assert.NotPanics(t, func() {
			IsRemovalNotice(html)
		})
	}
}
