package turn

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedProvider(t *testing.T, cfg Config) *RESTProvider {
	t.Helper()
	cfg.Now = func() time.Time { return time.Unix(1_700_000_000, 0).UTC() }
	cfg.SessionID = func() string { return "session123" }
	p, err := NewRESTProvider(cfg)
	require.NoError(t, err)
	return p
}

func TestRESTProvider_Credentials(t *testing.T) {
	t.Run("should sign turn servers and leave stun servers bare", func(t *testing.T) {
		req := require.New(t)
		p := fixedProvider(t, Config{
			STUNURLs:       []string{"stun:stun.l.google.com:19302"},
			TURNURLs:       []string{"turn:turn.example.com:3478?transport=udp", "turns:turn.example.com:5349"},
			SharedSecret:   "shared-secret",
			TTL:            time.Hour,
			UsernamePrefix: "huddle",
		})

		creds, err := p.Credentials(context.Background())
		req.NoError(err)
		req.Len(creds.ICEServers, 2)

		stunServer := creds.ICEServers[0]
		req.Equal([]string{"stun:stun.l.google.com:19302"}, stunServer.URLs)
		req.Empty(stunServer.Username)
		req.Nil(stunServer.Credential)

		turnServer := creds.ICEServers[1]
		req.Equal("1700003600:huddle:session123", turnServer.Username)
		mac := hmac.New(sha1.New, []byte("shared-secret"))
		_, _ = mac.Write([]byte(turnServer.Username))
		req.Equal(base64.StdEncoding.EncodeToString(mac.Sum(nil)), turnServer.Credential)
		req.Equal(int64(1_700_003_600), creds.ExpiresAt)
	})

	t.Run("should serve stun only without expiry", func(t *testing.T) {
		req := require.New(t)
		p := fixedProvider(t, Config{STUNURLs: []string{"stun:stun.example.com"}})

		creds, err := p.Credentials(context.Background())
		req.NoError(err)
		req.Len(creds.ICEServers, 1)
		req.Zero(creds.ExpiresAt)
	})

	t.Run("should fail when nothing is configured", func(t *testing.T) {
		p := fixedProvider(t, Config{})
		_, err := p.Credentials(context.Background())
		require.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("should fail on a cancelled context", func(t *testing.T) {
		p := fixedProvider(t, Config{STUNURLs: []string{"stun:stun.example.com"}})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Credentials(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewRESTProvider_Validation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"turn without secret", Config{TURNURLs: []string{"turn:t.example.com"}, TTL: time.Hour, UsernamePrefix: "x"}},
		{"turn without ttl", Config{TURNURLs: []string{"turn:t.example.com"}, SharedSecret: "s", UsernamePrefix: "x"}},
		{"prefix with colon", Config{TURNURLs: []string{"turn:t.example.com"}, SharedSecret: "s", TTL: time.Hour, UsernamePrefix: "a:b"}},
		{"turn url in stun list", Config{STUNURLs: []string{"turn:t.example.com"}}},
		{"stun url in turn list", Config{TURNURLs: []string{"stun:s.example.com"}, SharedSecret: "s", TTL: time.Hour, UsernamePrefix: "x"}},
		{"bad scheme", Config{STUNURLs: []string{"http://example.com"}}},
	}
	for _, tc := range cases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			_, err := NewRESTProvider(tc.cfg)
			require.Error(t, err)
		})
	}
}
