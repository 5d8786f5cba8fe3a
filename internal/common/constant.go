// Package common contains shared constants used across taxdesk components.
package common

// Credential Store keys. The names are part of the on-disk format shared by
// every client process pointed at the same database file.
const (
	AccessTokenKey      = "access_token"
	RefreshTokenKey     = "refresh_token"
	PaymentSubmittedKey = "paymentSubmitted"
)

// AuthorizationHeaderName carries the bearer access token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries the per-call correlation id.
const RequestIDHeaderName = "X-Request-ID"

// WipeByteArray zeroes b in place. Safe on nil.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
