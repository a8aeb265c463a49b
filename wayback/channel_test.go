package wayback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const channelPage = `<html><head><title>Some Channel - YouTube</title></head><body><script>
var ytInitialData = {
  "metadata": {
    "channelMetadataRenderer": {
      "title": "Some Channel",
      "description": "Channel about things",
      "externalId": "UCabcdefghijklmnopqrstuv",
      "country": "de",
      "defaultLanguage": "de-DE",
      "avatar": {
        "thumbnails": [
          {"url": "https://yt3.ggpht.com/avatar=s88", "width": 88},
          {"url": "https://yt3.ggpht.com/avatar=s800", "width": 800}
        ]
      }
    }
  },
  "header": {
    "c4TabbedHeaderRenderer": {
      "subscriberCountText": {"simpleText": "1.2M subscribers"},
      "videosCountText": {"runs": [{"text": "1,234"}, {"text": " videos"}]}
    }
  }
};
</script></body></html>`

func TestExtractChannelMetadataFromJSON(t *testing.T) {
	data := extractChannelMetadata(channelPage, "20190501000000", "UCabcdefghijklmnopqrstuv")

	require.NotNil(t, data)
	require.True(t, data.HasData())
	assert.Equal(t, "20190501000000", data.SnapshotTimestamp)

	require.NotNil(t, data.Title)
	assert.Equal(t, "Some Channel", *data.Title)

	require.NotNil(t, data.Description)
	assert.Equal(t, "Channel about things", *data.Description)

	require.NotNil(t, data.Country)
	assert.Equal(t, "DE", *data.Country, "country is uppercased before validation")

	require.NotNil(t, data.DefaultLanguage)
	assert.Equal(t, "de-DE", *data.DefaultLanguage)

	require.NotNil(t, data.ThumbnailURL)
	assert.Equal(t, "https://yt3.ggpht.com/avatar=s88", *data.ThumbnailURL,
		"avatar uses the first thumbnail entry")

	require.NotNil(t, data.SubscriberCount)
	assert.Equal(t, int64(1_200_000), *data.SubscriberCount)

	require.NotNil(t, data.VideoCount)
	assert.Equal(t, int64(1234), *data.VideoCount)
}

func TestExtractChannelMetadataCrossValidation(t *testing.T) {
	// A well-formed, fully populated page for the wrong channel is a
	// wrong-snapshot error, not a partial success.
	data := extractChannelMetadata(channelPage, "20190501000000", "UCzzzzzzzzzzzzzzzzzzzzzz")
	assert.Nil(t, data)
}

func TestExtractChannelMetadataMissingExternalID(t *testing.T) {
	html := `<html><head><title>c - YouTube</title></head><script>
var ytInitialData = {"metadata": {"channelMetadataRenderer": {"title": "No ID Channel"}}};
</script></html>`

	data := extractChannelMetadata(html, "20190501000000", "UCabcdefghijklmnopqrstuv")
	require.NotNil(t, data, "absent externalId cannot fail cross-validation")
	require.NotNil(t, data.Title)
	assert.Equal(t, "No ID Channel", *data.Title)
}

func TestExtractChannelMetadataInvalidCountry(t *testing.T) {
	html := `<html><head><title>c - YouTube</title></head><script>
var ytInitialData = {"metadata": {"channelMetadataRenderer": {"title": "T", "country": "Germany"}}};
</script></html>`

	data := extractChannelMetadata(html, "20190501000000", "")
	require.NotNil(t, data)
	assert.Nil(t, data.Country, "non-ISO country values are discarded")
}

func TestExtractChannelMetadataMetaTagFallback(t *testing.T) {
	html := `<html><head><title>c - YouTube</title>
<meta property="og:title" content="Legacy Channel">
<meta property="og:description" content="legacy about text">
<meta property="og:image" content="https://yt3.ggpht.com/legacy">
</head><body></body></html>`

	data := extractChannelMetadata(html, "20121101000000", "UCabcdefghijklmnopqrstuv")
	require.NotNil(t, data)
	require.True(t, data.HasData())
	assert.Equal(t, "Legacy Channel", *data.Title)
	assert.Equal(t, "legacy about text", *data.Description)
	assert.Equal(t, "https://yt3.ggpht.com/legacy", *data.ThumbnailURL)
	assert.Nil(t, data.SubscriberCount)
}

func TestExtractChannelMetadataRemovalNotice(t *testing.T) {
	html := `<html><head><title>YouTube</title></head><body></body></html>`

	data := extractChannelMetadata(html, "20150101000000", "UCabcdefghijklmnopqrstuv")
	require.NotNil(t, data)
	assert.False(t, data.HasData())
}
