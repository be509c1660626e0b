package services

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/rhanierex/Gym-Management/internal/membership"
)

// ScanPrefix is the literal prefix every member card QR payload carries.
// Cards in circulation encode "GYM-MG123456"; both halves are load-bearing.
const ScanPrefix = "GYM-"

// QRPayload returns the string encoded on a member's card
func QRPayload(memberID string) string {
	return ScanPrefix + memberID
}

// ParseScanPayload validates a raw scan and extracts the member identifier.
// Anything that is not the literal prefix followed by a well-formed member id
// is rejected before it reaches the attendance tracker.
func ParseScanPayload(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, ScanPrefix) {
		return "", &membership.ValidationError{Field: "qr_data", Reason: "payload must start with " + ScanPrefix}
	}
	memberID := strings.TrimPrefix(payload, ScanPrefix)
	if !membership.MemberIDPattern.MatchString(memberID) {
		return "", &membership.ValidationError{Field: "qr_data", Reason: fmt.Sprintf("%q is not a valid member id", memberID)}
	}
	return memberID, nil
}

// MemberQRCode renders the member's card QR as a PNG. High error correction
// matches the laminated cards the front desk prints.
func MemberQRCode(memberID string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(QRPayload(memberID), qrcode.High, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}
