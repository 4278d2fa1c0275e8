package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptySecret  = errors.New("secret cannot be empty")
	ErrWeakSecret   = errors.New("secret must be at least 32 characters")
	ErrEmptyField   = errors.New("token fields cannot be empty")
	ErrMalformed    = errors.New("malformed token")
	ErrBadSignature = errors.New("bad token signature")
	ErrExpired      = errors.New("token has expired")
)

// Validity is the fixed approval-token window: links work for 7 days from
// issuance.
const Validity = 7 * 24 * time.Hour

const payloadVersion = "v1"

// Payload is the triple an approval token binds, plus its time bounds
type Payload struct {
	BusinessID    string
	UserID        string
	ApplicationID string
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

// Codec mints and verifies approval tokens. Tokens are stateless: the payload
// is a fixed delimited string signed with HMAC-SHA256, so verification never
// needs a datastore round trip.
type Codec struct {
	secret  []byte
	baseURL string
	now     func() time.Time
}

// NewCodec creates a codec signing with the given secret. The base URL is the
// customer-facing origin embedded in approval links.
func NewCodec(secret, publicBaseURL string) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if len(secret) < 32 {
		return nil, ErrWeakSecret
	}
	return &Codec{
		secret:  []byte(secret),
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		now:     time.Now,
	}, nil
}

// Issue mints a token for the given triple and returns it together with the
// fully-formed Phase-2 entry link. Pure function of inputs, current time and
// the secret; nothing is persisted.
func (c *Codec) Issue(businessID, userID, applicationID string) (string, string, *Payload, error) {
	for _, field := range []string{businessID, userID, applicationID} {
		if field == "" {
			return "", "", nil, ErrEmptyField
		}
		if strings.Contains(field, "|") {
			return "", "", nil, fmt.Errorf("%w: identifier contains delimiter", ErrEmptyField)
		}
	}

	issued := c.now().UTC().Truncate(time.Second)
	payload := &Payload{
		BusinessID:    businessID,
		UserID:        userID,
		ApplicationID: applicationID,
		IssuedAt:      issued,
		ExpiresAt:     issued.Add(Validity),
	}

	raw := strings.Join([]string{
		payloadVersion,
		payload.BusinessID,
		payload.UserID,
		payload.ApplicationID,
		strconv.FormatInt(payload.IssuedAt.Unix(), 10),
		strconv.FormatInt(payload.ExpiresAt.Unix(), 10),
	}, "|")

	tok := base64.RawURLEncoding.EncodeToString([]byte(raw)) + "." +
		base64.RawURLEncoding.EncodeToString(c.sign([]byte(raw)))

	return tok, c.EntryURL(tok), payload, nil
}

// EntryURL builds the Phase-2 entry link for an existing token
func (c *Codec) EntryURL(tok string) string {
	return c.baseURL + "/phase2-entry?token=" + url.QueryEscape(tok)
}

// Verify checks the signature and time bounds and returns the embedded triple
// verbatim. It performs no existence check against the datastore; that is the
// caller's responsibility. The signature is checked before anything is parsed
// so a flipped byte can only ever produce ErrBadSignature, and expiry is
// checked after, so an authentic late token always reports ErrExpired.
func (c *Codec) Verify(tok string) (*Payload, error) {
	dot := strings.IndexByte(tok, '.')
	if dot < 0 || strings.IndexByte(tok[dot+1:], '.') >= 0 {
		return nil, ErrMalformed
	}

	raw, err := base64.RawURLEncoding.DecodeString(tok[:dot])
	if err != nil {
		return nil, ErrMalformed
	}
	sig, err := base64.RawURLEncoding.DecodeString(tok[dot+1:])
	if err != nil {
		return nil, ErrMalformed
	}

	if !hmac.Equal(sig, c.sign(raw)) {
		return nil, ErrBadSignature
	}

	fields := strings.Split(string(raw), "|")
	if len(fields) != 6 || fields[0] != payloadVersion {
		return nil, ErrMalformed
	}
	issuedUnix, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, ErrMalformed
	}
	expiresUnix, err := strconv.ParseInt(fields[5], 10, 64)
	if err != nil {
		return nil, ErrMalformed
	}

	payload := &Payload{
		BusinessID:    fields[1],
		UserID:        fields[2],
		ApplicationID: fields[3],
		IssuedAt:      time.Unix(issuedUnix, 0).UTC(),
		ExpiresAt:     time.Unix(expiresUnix, 0).UTC(),
	}

	if c.now().After(payload.ExpiresAt) {
		return nil, ErrExpired
	}

	return payload, nil
}

func (c *Codec) sign(raw []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(raw)
	return mac.Sum(nil)
}
