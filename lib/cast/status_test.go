package cast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeReceiver(t *testing.T, payload string) *receiverStatus {
	var raw interface{}
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	var status receiverStatus
	require.NoError(t, recode(raw, &status))
	return &status
}

func TestReceiverIdle(t *testing.T) {
	status := decodeReceiver(t, `{"applications":[{"appId":"E8C28D3C","displayName":"Backdrop","isIdleScreen":true}],"volume":{"level":0.5,"muted":false}}`)
	assert.Nil(t, status.info())
	assert.Equal(t, "", status.appID())

	status = decodeReceiver(t, `{"volume":{"level":0.5}}`)
	assert.Nil(t, status.info())
}

func TestReceiverOtherApp(t *testing.T) {
	status := decodeReceiver(t, `{"applications":[{"appId":"233637DE","displayName":"YouTube","statusText":"TV Aparecida - Ao Vivo"}],"volume":{"level":0.25,"muted":false}}`)
	info := status.info()
	require.NotNil(t, info)
	assert.Equal(t, "233637DE", status.appID())
	assert.Equal(t, "TV Aparecida - Ao Vivo", *info.Title)
	assert.Equal(t, "YouTube", *info.DisplayName)
	assert.Equal(t, 0.25, *info.VolumeLevel)
	assert.Contains(t, info.Text(), "TV Aparecida")
}

func TestMediaStatusApply(t *testing.T) {
	status := decodeReceiver(t, `{"applications":[{"appId":"CC1AD845","displayName":"Default Media Receiver","statusText":"Ready To Cast"}]}`)
	info := status.info()
	require.NotNil(t, info)
	assert.Nil(t, info.Title)

	var media mediaStatusResponse
	err := json.Unmarshal([]byte(`{"status":[{"playerState":"PLAYING","currentTime":42.5,"media":{"contentId":"http://10.0.0.2:8011/media/filme.mp4","contentType":"video/mp4","duration":5400,"metadata":{"title":"Filme"}}}]}`), &media)
	require.NoError(t, err)
	media.apply(info)
	assert.Equal(t, "Filme", *info.Title)
	assert.Equal(t, "PLAYING", *info.PlayerState)
	assert.Equal(t, 42.5, *info.CurrentTime)
	assert.Equal(t, float64(5400), *info.Duration)
	assert.False(t, media.finished())
}

func decodeMedia(t *testing.T, payload string) *mediaStatusResponse {
	media := &mediaStatusResponse{}
	require.NoError(t, json.Unmarshal([]byte(payload), media))
	return media
}

func TestMediaStatusFinished(t *testing.T) {
	assert.True(t, decodeMedia(t, `{"status":[{"playerState":"IDLE","idleReason":"FINISHED"}]}`).finished())
	assert.False(t, decodeMedia(t, `{"status":[{"playerState":"IDLE"}]}`).finished())
	assert.False(t, decodeMedia(t, `{"status":[{"playerState":"PLAYING"}]}`).finished())

	assert.True(t, (&mediaStatusResponse{}).finished())
}
