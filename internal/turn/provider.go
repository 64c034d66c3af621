// Package turn issues ICE server lists with ephemeral TURN credentials.
//
// Credentials follow the coturn TURN REST scheme:
//
//	username   = <unix_expiry>:<prefix>:<session>
//	credential = base64(hmac_sha1(shared_secret, username))
package turn

//go:generate mockgen -source=provider.go -destination=mocks/mock_provider.go -package=mocks

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
)

var ErrNotConfigured = errors.New("no ice servers configured")

// Credentials is what a browser needs to configure its RTCPeerConnection.
type Credentials struct {
	ICEServers []webrtc.ICEServer `json:"iceServers"`
	// ExpiresAt is the unix time the TURN credentials stop working, 0 when
	// only STUN servers are configured.
	ExpiresAt int64 `json:"expiresAt,omitempty"`
}

// Provider fetches ephemeral relay credentials, or fails.
type Provider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

type Config struct {
	STUNURLs       []string
	TURNURLs       []string
	SharedSecret   string
	TTL            time.Duration
	UsernamePrefix string

	Now       func() time.Time
	SessionID func() string
}

// RESTProvider signs TURN credentials locally with a secret shared with the
// TURN server. It never blocks on I/O.
type RESTProvider struct {
	stun      []string
	turn      []string
	secret    []byte
	ttl       time.Duration
	prefix    string
	now       func() time.Time
	sessionID func() string
}

func NewRESTProvider(cfg Config) (*RESTProvider, error) {
	if err := ValidateURLs(cfg.STUNURLs, false); err != nil {
		return nil, fmt.Errorf("stun urls: %w", err)
	}
	if err := ValidateURLs(cfg.TURNURLs, true); err != nil {
		return nil, fmt.Errorf("turn urls: %w", err)
	}
	if len(cfg.TURNURLs) > 0 {
		if cfg.SharedSecret == "" {
			return nil, errors.New("turn urls require a shared secret")
		}
		if cfg.TTL <= 0 {
			return nil, errors.New("turn ttl must be > 0")
		}
		if cfg.UsernamePrefix == "" || strings.Contains(cfg.UsernamePrefix, ":") {
			return nil, fmt.Errorf("invalid turn username prefix %q", cfg.UsernamePrefix)
		}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SessionID == nil {
		cfg.SessionID = uuid.NewString
	}
	return &RESTProvider{
		stun:      cfg.STUNURLs,
		turn:      cfg.TURNURLs,
		secret:    []byte(cfg.SharedSecret),
		ttl:       cfg.TTL,
		prefix:    cfg.UsernamePrefix,
		now:       cfg.Now,
		sessionID: cfg.SessionID,
	}, nil
}

func (p *RESTProvider) Credentials(ctx context.Context) (Credentials, error) {
	if err := ctx.Err(); err != nil {
		return Credentials{}, err
	}
	if len(p.stun) == 0 && len(p.turn) == 0 {
		return Credentials{}, ErrNotConfigured
	}

	out := Credentials{ICEServers: make([]webrtc.ICEServer, 0, 2)}
	if len(p.stun) > 0 {
		out.ICEServers = append(out.ICEServers, webrtc.ICEServer{URLs: p.stun})
	}
	if len(p.turn) > 0 {
		session := p.sessionID()
		if strings.Contains(session, ":") {
			return Credentials{}, fmt.Errorf("session id %q contains ':'", session)
		}
		expiry := p.now().UTC().Add(p.ttl).Unix()
		username := fmt.Sprintf("%d:%s:%s", expiry, p.prefix, session)
		out.ICEServers = append(out.ICEServers, webrtc.ICEServer{
			URLs:       p.turn,
			Username:   username,
			Credential: sign(p.secret, username),
		})
		out.ExpiresAt = expiry
	}
	return out, nil
}

func sign(secret []byte, username string) string {
	mac := hmac.New(sha1.New, secret)
	_, _ = mac.Write([]byte(username))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ValidateURLs parses each ICE URL and checks it belongs to the stun or turn family.
func ValidateURLs(urls []string, wantTURN bool) error {
	for _, raw := range urls {
		u, err := stun.ParseURI(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%q: %w", raw, err)
		}
		isTURN := u.Scheme == stun.SchemeTypeTURN || u.Scheme == stun.SchemeTypeTURNS
		if isTURN != wantTURN {
			return fmt.Errorf("%q: unexpected scheme %s", raw, u.Scheme)
		}
	}
	return nil
}
