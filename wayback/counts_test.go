package wayback

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubscriberCount(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"1.2M subscribers", 1_200_000, true},
		{"500K subscribers", 500_000, true},
		{"1,234 subscribers", 1234, true},
		{"No subscribers", 0, true},
		{"no subscribers", 0, true},
		{"42 subscribers", 42, true},
		{"3.5K subscriber", 3500, true},
		{"2B subscribers", 2_000_000_000, true},
		{"1.2m subscribers", 1_200_000, true},
		{"987", 987, true},
		{"", 0, false},
		{"subscribers", 0, false},
		{"lots of subscribers", 0, false},
		{"1.2.3M subscribers", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSubscriberCount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseVideoCount(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"1,234 videos", 1234, true},
		{"500", 500, true},
		{"1 video", 1, true},
		{"12,345,678 videos", 12_345_678, true},
		{"", 0, false},
		{"videos", 0, false},
		{"some videos", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseVideoCount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLikeCountFromInitialData(t *testing.T) {
	data := map[string]interface{}{
		"topLevelButtons": []interface{}{
			map[string]interface{}{
				"accessibility": map[string]interface{}{
					"label": "12,345 likes",
				},
			},
		},
	}

	n, ok := likeCountFromInitialData(data)
	require.True(t, ok)
	assert.Equal(t, int64(12345), n)

	_, ok = likeCountFromInitialData(map[string]interface{}{"nothing": "here"})
	assert.False(t, ok)
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestLikeCountFromHTML(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int64
		ok   bool
	}{
		{
			name: "old format button content",
			html: `<button class="like-button-renderer-like-button">` +
				`<span class="yt-uix-button-content">1.234</span></button>`,
			want: 1234,
			ok:   true,
		},
		{
			name: "old format skips dislike button",
			html: `<button class="like-button-renderer-like-button like-button-renderer-dislike-button">` +
				`<span class="yt-uix-button-content">99</span></button>` +
				`<button class="like-button-renderer-like-button">` +
				`<span class="yt-uix-button-content">2,510</span></button>`,
			want: 2510,
			ok:   true,
		},
		{
			name: "german aria label without language branching",
			html: `<button class="like-button-renderer-like-button" aria-label="Ich mag das Video, wie 2.510 andere"></button>`,
			want: 2510,
			ok:   true,
		},
		{
			name: "modern formatted string",
			html: `<yt-formatted-string aria-label="8,052 likes">8K</yt-formatted-string>`,
			want: 8052,
			ok:   true,
		},
		{
			name: "older english along-with label",
			html: `<button aria-label="like this video along with 1,024 other people"></button>`,
			want: 1024,
			ok:   true,
		},
		{
			name: "broad aria label last resort",
			html: `<div aria-label="77 likes"></div>`,
			want: 77,
			ok:   true,
		},
		{
			name: "no like markup",
			html: `<div>nothing</div>`,
			ok:   false,
		},
		{
			name: "unparseable falls through to next pattern",
			html: `<button class="like-button-renderer-like-button">` +
				`<span class="yt-uix-button-content">n/a</span></button>` +
				`<div aria-label="55 likes"></div>`,
			want: 55,
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := likeCountFromHTML(mustDoc(t, tt.html))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, n)
			}
		})
	}
}
