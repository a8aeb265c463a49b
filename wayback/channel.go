package wayback

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/aucontraire/chronovista-sub003/model/recovery"
)

// countryCodePattern validates 2-letter uppercase ISO country codes.
var countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// extractChannelMetadata recovers channel metadata from one snapshot's HTML.
// A nil result means the snapshot was discarded outright: its embedded
// externalId disagreed with the channel being recovered, which is treated as
// a wrong-snapshot error rather than a partial success. Any other outcome is
// a non-nil, possibly all-unset record.
func extractChannelMetadata(html, snapshotTimestamp, expectedChannelID string) *recovery.RecoveredChannelData {
	data := &recovery.RecoveredChannelData{SnapshotTimestamp: snapshotTimestamp}

	if removed, reason := IsRemovalNotice(html); removed {
		log.Debug().
			Str("snapshot", snapshotTimestamp).
			Str("reason", reason).
			Msg("Channel snapshot is a removal notice")
		return data
	}

	initial, haveJSON := initialData(html)
	if haveJSON {
		if !channelFromInitialData(initial, expectedChannelID, data) {
			// Cross-validation failed: wrong channel's page.
			return nil
		}
	}

	if !haveJSON || !data.HasData() {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
			channelFromMetaTags(doc, data)
		}
	}

	return data
}

// channelFromInitialData populates data from the embedded ytInitialData
// blob. It reports false only on a cross-validation mismatch between the
// page's externalId and the expected channel ID.
func channelFromInitialData(initial map[string]interface{}, expectedChannelID string, data *recovery.RecoveredChannelData) bool {
	if meta, ok := navMap(initial, "metadata", "channelMetadataRenderer"); ok {
		if externalID, ok := meta["externalId"].(string); ok && externalID != "" &&
			expectedChannelID != "" && externalID != expectedChannelID {
			log.Warn().
				Str("expected_channel_id", expectedChannelID).
				Str("snapshot_channel_id", externalID).
				Msg("Snapshot belongs to a different channel, discarding")
			return false
		}

		if title, ok := meta["title"].(string); ok && title != "" {
			data.Title = &title
		}
		if desc, ok := meta["description"].(string); ok && desc != "" {
			data.Description = &desc
		}
		if country, ok := meta["country"].(string); ok {
			upper := strings.ToUpper(strings.TrimSpace(country))
			if countryCodePattern.MatchString(upper) {
				data.Country = &upper
			}
		}
		if lang, ok := meta["defaultLanguage"].(string); ok && lang != "" {
			data.DefaultLanguage = &lang
		}
		if thumbs, ok := navSlice(meta, "avatar", "thumbnails"); ok && len(thumbs) > 0 {
			if url, ok := navString(thumbs[0], "url"); ok && url != "" {
				data.ThumbnailURL = &url
			}
		}
	}

	if header, ok := navMap(initial, "header", "c4TabbedHeaderRenderer"); ok {
		if text, ok := navString(header, "subscriberCountText", "simpleText"); ok {
			if n, ok := ParseSubscriberCount(text); ok {
				data.SubscriberCount = &n
			}
		}
		if runs, ok := navSlice(header, "videosCountText", "runs"); ok && len(runs) > 0 {
			if text, ok := navString(runs[0], "text"); ok {
				if n, ok := ParseVideoCount(text); ok {
					data.VideoCount = &n
				}
			}
		}
	}

	return true
}

// channelFromMetaTags is the meta-tag fallback for channel pages. Without
// JSON there is no externalId to cross-validate against, so only the basic
// open-graph fields are trusted.
func channelFromMetaTags(doc *goquery.Document, data *recovery.RecoveredChannelData) {
	if data.Title == nil {
		if title, ok := metaContent(doc, `meta[property="og:title"]`); ok {
			data.Title = &title
		}
	}
	if data.Description == nil {
		if desc, ok := metaContent(doc, `meta[property="og:description"]`); ok {
			data.Description = &desc
		}
	}
	if data.ThumbnailURL == nil {
		if image, ok := metaContent(doc, `meta[property="og:image"]`); ok {
			data.ThumbnailURL = &image
		}
	}
}
