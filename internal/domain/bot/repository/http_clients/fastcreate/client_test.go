package fastcreate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twexity/relaybots/config"
	"github.com/twexity/relaybots/internal/domain/bot/entities"
	boterrors "github.com/twexity/relaybots/internal/domain/bot/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&config.MediaAPIConfig{
		URL:     srv.URL,
		APIKey:  "secret",
		Timeout: time.Second,
	}, zerolog.Nop()).(*Client)
}

func TestResolveMedia_Video(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		assert.Equal(t, "post", r.URL.Query().Get("type"))
		assert.Equal(t, "https://www.instagram.com/p/abc/", r.URL.Query().Get("url"))

		_, _ = w.Write([]byte(`{"ok":true,"result":{"result":[
			{"caption":"hello","is_video":true,"video_url":"https://cdn/v.mp4","display_url":"https://cdn/p.jpg"},
			{"caption":"second","is_video":false,"display_url":"https://cdn/2.jpg"}
		]}}`))
	})

	media, err := client.ResolveMedia(context.Background(), "https://www.instagram.com/p/abc/")
	require.NoError(t, err)
	assert.Equal(t, &entities.MediaResult{
		Caption:    "hello",
		IsVideo:    true,
		VideoURL:   "https://cdn/v.mp4",
		DisplayURL: "https://cdn/p.jpg",
	}, media)
}

func TestResolveMedia_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "not ok",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"ok":false}`))
			},
			want: boterrors.ErrMediaNotFound,
		},
		{
			name: "empty list",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"ok":true,"result":{"result":[]}}`))
			},
			want: boterrors.ErrMediaNotFound,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: boterrors.ErrUnexpectedStatus,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"ok":`))
			},
			want: boterrors.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			media, err := client.ResolveMedia(context.Background(), "https://instagram.com/p/x")
			assert.Nil(t, media)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolveMedia_Unreachable(t *testing.T) {
	client := NewClient(&config.MediaAPIConfig{
		URL:     "http://127.0.0.1:1",
		Timeout: time.Second,
	}, zerolog.Nop())

	_, err := client.ResolveMedia(context.Background(), "https://instagram.com/p/x")
	assert.ErrorIs(t, err, boterrors.ErrNetwork)
}
