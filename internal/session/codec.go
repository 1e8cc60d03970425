package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// DefaultCookieName is the cookie carrying the encoded session token.
const DefaultCookieName = "__Secure-QD-Session"

// Codec encodes session state into a transport-safe cookie value and back.
// Encoding is lossless JSON + base64url; decoding is deliberately lenient so
// that a missing, truncated or tampered token degrades to an empty session
// instead of failing the request.
type Codec struct {
	CookieName string
}

// NewCodec returns a codec using the given cookie name, or
// DefaultCookieName when empty.
func NewCodec(cookieName string) *Codec {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Codec{CookieName: cookieName}
}

// Encode serializes the state into a cookie-safe token.
func (c *Codec) Encode(s State) string {
	data, err := json.Marshal(s)
	if err != nil {
		// State is a plain struct of strings; Marshal cannot fail on it.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses a token produced by Encode. Any malformed input yields the
// zero State.
func (c *Codec) Decode(token string) State {
	var s State
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return State{}
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}
	}
	return s
}

// Read reconstructs the session from the request's cookie. A request
// without a token starts an empty session.
func (c *Codec) Read(r *http.Request) State {
	cookie, err := r.Cookie(c.CookieName)
	if err != nil {
		return State{}
	}
	return c.Decode(cookie.Value)
}

// Write re-serializes the session into the response.
func (c *Codec) Write(w http.ResponseWriter, s State) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.CookieName,
		Value:    c.Encode(s),
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
