// Copyright (c) 2026 Code Nation. All rights reserved.
// Author: platform@code-nation.dev

package sec

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// HashPasscode hashes a plain-text one-time passcode using the bcrypt algorithm.
func HashPasscode(plainTextCode string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextCode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash passcode: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasscodeHash compares a plain-text passcode with its hashed version.
func CheckPasscodeHash(plainTextCode, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextCode))
	return err == nil
}

// HashToken returns the hex-encoded SHA-256 digest of an opaque token.
// Used to avoid storing raw magic-link tokens at rest.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// GenerateSecureToken returns a URL-safe random token of byteLength entropy bytes.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateNumericCode returns a zero-padded numeric one-time passcode of the
// given digit length, suitable for manual entry from an email.
func GenerateNumericCode(digits int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate passcode: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

// # Message Signing

// SignMessage returns the hex-encoded HMAC-SHA256 of message under secret.
// Used by the preview gate to verify activation tokens minted out-of-band.
func SignMessage(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature is a valid HMAC-SHA256 of message
// under secret, in constant time.
func VerifySignature(secret, message, signature string) bool {
	expected := SignMessage(secret, message)
	return hmac.Equal([]byte(expected), []byte(signature))
}
