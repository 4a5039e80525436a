// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import "time"

// # Handshake Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// There is no refresh flow: an expired token means a fresh code exchange.
	AccessTokenTTL = 1 * time.Hour

	// ConfirmationCodeTTL is the duration a signup confirmation code remains
	// exchangeable. Long-lived (24 hours) as users might not check email
	// immediately; re-signup reissues a fresh code at any time.
	ConfirmationCodeTTL = 24 * time.Hour

	// ConfirmationCodeLength is the byte length of the random code
	// (hex-encoded to twice this many characters).
	ConfirmationCodeLength = 16

	// ConfirmationEmailSubject is the subject line of the code delivery mail.
	ConfirmationEmailSubject = "Kritika registration confirmation"
)
