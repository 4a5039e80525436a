// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GenerateSecureToken returns a cryptographically random hex string of the
// given byte length. Used for opaque signup confirmation codes.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashCode hashes a plain-text confirmation code using the bcrypt algorithm.
// Codes are never persisted in plain text.
func HashCode(plainTextCode string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextCode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash code: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckCodeHash compares a plain-text confirmation code with its hashed version.
func CheckCodeHash(plainTextCode, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextCode))
	return err == nil
}
