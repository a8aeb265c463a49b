package wayback

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/aucontraire/chronovista-sub003/model/recovery"
)

// channelIDPattern validates canonical channel IDs: UC followed by 22
// alphanumeric/underscore/dash characters. Any candidate failing the pattern
// is discarded, never propagated.
var channelIDPattern = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)

var (
	channelPathPattern = regexp.MustCompile(`/channel/(UC[A-Za-z0-9_-]{22})`)
	userPathPattern    = regexp.MustCompile(`/(?:user|c)/([^/?#]+)`)

	brTagPattern = regexp.MustCompile(`(?i)<br\s*/?>`)

	// Three or more consecutive newlines collapse to a paragraph break.
	newlineRunPattern = regexp.MustCompile(`\n{3,}`)
)

// validChannelID returns the candidate when it matches the canonical UC
// pattern.
func validChannelID(candidate string) (string, bool) {
	if channelIDPattern.MatchString(candidate) {
		return candidate, true
	}
	return "", false
}

// extractVideoMetadata recovers video metadata from one snapshot's HTML.
// Extraction strategies run in priority order: removal classification,
// embedded-JSON extraction with DOM supplementation, then meta-tag fallback.
// The result is always non-nil; an all-unset record signals no usable data.
func extractVideoMetadata(html, snapshotTimestamp string) *recovery.RecoveredVideoData {
	data := &recovery.RecoveredVideoData{SnapshotTimestamp: snapshotTimestamp}

	if removed, reason := IsRemovalNotice(html); removed {
		log.Debug().
			Str("snapshot", snapshotTimestamp).
			Str("reason", reason).
			Msg("Snapshot is a removal notice")
		return data
	}

	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(html))
	if docErr != nil {
		doc = nil
	}

	if videoFromPlayerResponse(html, data) {
		if doc != nil {
			supplementVideo(doc, data)
		}
		return data
	}

	if doc != nil {
		if videoFromMetaTags(doc, data) {
			return data
		}
	}

	return data
}

// videoFromPlayerResponse populates data from the embedded
// ytInitialPlayerResponse blob. It reports false when no videoDetails object
// is present, in which case data is left untouched and the caller falls back
// to meta tags.
func videoFromPlayerResponse(html string, data *recovery.RecoveredVideoData) bool {
	pr, ok := playerResponse(html)
	if !ok {
		return false
	}

	details, ok := navMap(pr, "videoDetails")
	if !ok {
		return false
	}

	if title, ok := details["title"].(string); ok && title != "" {
		data.Title = &title
	}
	if desc, ok := details["shortDescription"].(string); ok && desc != "" {
		data.Description = &desc
	}
	if author, ok := details["author"].(string); ok && author != "" {
		data.ChannelNameHint = &author
	}
	if cid, ok := details["channelId"].(string); ok {
		if valid, ok := validChannelID(cid); ok {
			data.ChannelID = &valid
		}
	}
	if keywords, ok := navSlice(details, "keywords"); ok {
		for _, kw := range keywords {
			if s, ok := kw.(string); ok && s != "" {
				data.Tags = append(data.Tags, s)
			}
		}
	}
	if viewStr, ok := details["viewCount"].(string); ok {
		if n, err := strconv.ParseInt(viewStr, 10, 64); err == nil {
			data.ViewCount = &n
		}
	}

	if micro, ok := navMap(pr, "microformat", "playerMicroformatRenderer"); ok {
		if publish, ok := micro["publishDate"].(string); ok {
			if t, err := time.ParseInLocation("2006-01-02", publish, time.UTC); err == nil {
				data.UploadDate = &t
			}
		}
		if category, ok := micro["category"].(string); ok {
			if id, ok := CategoryID(category); ok {
				data.CategoryID = &id
			}
		}
		if thumbs, ok := navSlice(micro, "thumbnail", "thumbnails"); ok && len(thumbs) > 0 {
			// Archive convention: thumbnail arrays ascend by resolution.
			if url, ok := navString(thumbs[len(thumbs)-1], "url"); ok && url != "" {
				data.ThumbnailURL = &url
			}
		}
	}

	if initial, ok := initialData(html); ok {
		if likes, ok := likeCountFromInitialData(initial); ok {
			data.LikeCount = &likes
		}
	}

	return true
}

// descriptionTruncated recognizes the truncation signature transitional-era
// pages leave in their JSON payload: a short description ending in an
// ellipsis.
func descriptionTruncated(desc string) bool {
	return strings.HasSuffix(desc, "...") && len(desc) < 200
}

// supplementVideo re-scans the legacy DOM for fields the JSON payload carried
// truncated or not at all. Pre-mid-2020 transitional pages embed an
// incomplete JSON blob alongside a complete legacy DOM, so the DOM can be
// strictly better. The description is only overwritten when the DOM text is
// longer than what JSON produced.
func supplementVideo(doc *goquery.Document, data *recovery.RecoveredVideoData) {
	needDescription := data.Description == nil ||
		descriptionTruncated(*data.Description)

	if needDescription {
		if dom, ok := legacyDescription(doc); ok {
			if data.Description == nil || len(dom) > len(*data.Description) {
				data.Description = &dom
			}
		}
	}

	if data.LikeCount == nil {
		if likes, ok := likeCountFromHTML(doc); ok {
			data.LikeCount = &likes
		}
	}
}

// legacyDescription extracts the #eow-description element of 2012-2019
// watch pages, converting <br> to newlines and collapsing runs of blank
// lines.
func legacyDescription(doc *goquery.Document) (string, bool) {
	sel := doc.Find("#eow-description").First()
	if sel.Length() == 0 {
		return "", false
	}

	htmlText, err := sel.Html()
	if err != nil {
		return "", false
	}
	htmlText = brTagPattern.ReplaceAllString(htmlText, "\n")

	frag, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return "", false
	}

	text := strings.TrimSpace(frag.Text())
	if text == "" {
		return "", false
	}
	return newlineRunPattern.ReplaceAllString(text, "\n\n"), true
}

// videoFromMetaTags is the meta-tag fallback for pages with no videoDetails
// JSON. It reports false when not a single field was found so the caller can
// proceed to the render fallback instead of accepting an empty record.
func videoFromMetaTags(doc *goquery.Document, data *recovery.RecoveredVideoData) bool {
	found := false

	if title, ok := metaContent(doc, `meta[property="og:title"]`); ok {
		data.Title = &title
		found = true
	}

	if desc, ok := metaContent(doc, `meta[property="og:description"]`); ok {
		data.Description = &desc
		found = true
	}
	// The legacy DOM description upgrades og:description when longer.
	if dom, ok := legacyDescription(doc); ok {
		if data.Description == nil || len(dom) > len(*data.Description) {
			data.Description = &dom
		}
		found = true
	}

	if image, ok := metaContent(doc, `meta[property="og:image"]`); ok {
		data.ThumbnailURL = &image
		found = true
	}

	doc.Find(`meta[property="og:video:tag"]`).Each(func(_ int, s *goquery.Selection) {
		if tag, ok := s.Attr("content"); ok && tag != "" {
			data.Tags = append(data.Tags, tag)
			found = true
		}
	})

	if published, ok := metaContent(doc, `meta[itemprop="datePublished"]`); ok {
		if t, err := time.ParseInLocation("2006-01-02", published, time.UTC); err == nil {
			data.UploadDate = &t
			found = true
		}
	}

	if views, ok := metaContent(doc, `meta[itemprop="interactionCount"]`); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(views), 10, 64); err == nil {
			data.ViewCount = &n
			found = true
		}
	}

	if genre, ok := metaContent(doc, `meta[itemprop="genre"]`); ok {
		if id, ok := CategoryID(genre); ok {
			data.CategoryID = &id
			found = true
		}
	}

	if cid, ok := channelIDFromDOM(doc); ok {
		data.ChannelID = &cid
		found = true
	}

	if name, ok := channelNameFromDOM(doc); ok {
		data.ChannelNameHint = &name
		found = true
	}

	return found
}

// metaContent returns the non-empty content attribute of the first element
// matching the selector.
func metaContent(doc *goquery.Document, selector string) (string, bool) {
	content, ok := doc.Find(selector).First().Attr("content")
	content = strings.TrimSpace(content)
	return content, ok && content != ""
}

// channelIDExtractors resolves channel identity from legacy markup. The
// strategies run in priority order; the first valid UC id wins.
var channelIDExtractors = []func(*goquery.Document) (string, bool){
	channelIDFromMeta,
	channelIDFromItempropLink,
	channelIDFromDataAttr,
	channelIDFromAnchors,
}

func channelIDFromDOM(doc *goquery.Document) (string, bool) {
	for _, extract := range channelIDExtractors {
		if cid, ok := extract(doc); ok {
			return cid, true
		}
	}
	return "", false
}

func channelIDFromMeta(doc *goquery.Document) (string, bool) {
	cid, ok := metaContent(doc, `meta[itemprop="channelId"]`)
	if !ok {
		return "", false
	}
	return validChannelID(strings.TrimSpace(cid))
}

func channelIDFromItempropLink(doc *goquery.Document) (cid string, found bool) {
	doc.Find(`link[itemprop="url"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if m := channelPathPattern.FindStringSubmatch(href); m != nil {
			cid, found = m[1], true
			return false
		}
		return true
	})
	return cid, found
}

func channelIDFromDataAttr(doc *goquery.Document) (cid string, found bool) {
	doc.Find("[data-channel-external-id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		candidate, _ := s.Attr("data-channel-external-id")
		if valid, ok := validChannelID(strings.TrimSpace(candidate)); ok {
			cid, found = valid, true
			return false
		}
		return true
	})
	return cid, found
}

func channelIDFromAnchors(doc *goquery.Document) (cid string, found bool) {
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if m := channelPathPattern.FindStringSubmatch(href); m != nil {
			cid, found = m[1], true
			return false
		}
		return true
	})
	return cid, found
}

// channelNameFromDOM resolves a channel-name hint from a legacy /user/ or
// /c/ vanity link.
func channelNameFromDOM(doc *goquery.Document) (name string, found bool) {
	doc.Find(`link[itemprop="url"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if m := userPathPattern.FindStringSubmatch(href); m != nil && m[1] != "" {
			name, found = m[1], true
			return false
		}
		return true
	})
	return name, found
}
