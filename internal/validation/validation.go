package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/quantpulse/Trading-Signals-Backend/internal/apperrors"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// Valid insight timeframes. Anything else silently falls back to 1D.
var validTimeframes = map[string]bool{
	"1D": true,
	"1W": true,
	"1M": true,
	"3M": true,
	"6M": true,
	"1Y": true,
}

// ValidateSymbol normalizes a ticker symbol (trim, uppercase) and checks it
// against the 1-10 alphanumeric pattern. Returns the normalized symbol.
func ValidateSymbol(symbol string) (string, error) {
	clean := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(clean) {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidSymbol, symbol)
	}
	return clean, nil
}

// ValidateUserID checks that a user ID is a well-formed UUID.
// The identity itself is assumed to be already authenticated upstream.
func ValidateUserID(userID string) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidUserID, userID)
	}
	return userID, nil
}

// ValidateUUID checks that a string is a well-formed UUID.
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid UUID: %w", err)
	}
	return nil
}

// NormalizeTimeframe uppercases a timeframe and returns it if valid,
// defaulting to 1D otherwise. An invalid timeframe is not an error.
func NormalizeTimeframe(timeframe string) string {
	clean := strings.ToUpper(strings.TrimSpace(timeframe))
	if !validTimeframes[clean] {
		return "1D"
	}
	return clean
}
