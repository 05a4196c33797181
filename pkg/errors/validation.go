package errors

import (
	"math"
	"net"
	"strings"
	"unicode"
)

// ValidateFrame validates frame dimensions before any layout is computed.
// Both sides must be finite and strictly positive.
func ValidateFrame(width, height float64) error {
	if !isFinite(width) || width <= 0 {
		return New(ErrCodeInvalidDimension, "frame width must be positive, got %v", width)
	}
	if !isFinite(height) || height <= 0 {
		return New(ErrCodeInvalidDimension, "frame height must be positive, got %v", height)
	}
	return nil
}

// ValidateCount validates a box count. least is the smallest accepted value:
// the solver requires 1, the crop calculator also accepts 0.
func ValidateCount(count, least int) error {
	if count < least {
		return New(ErrCodeInvalidDimension, "box count must be at least %d, got %d", least, count)
	}
	return nil
}

// ValidateAspectRatio validates a box aspect ratio (width / height).
func ValidateAspectRatio(ratio float64) error {
	if !isFinite(ratio) || ratio <= 0 {
		return New(ErrCodeInvalidDimension, "aspect ratio must be positive, got %v", ratio)
	}
	return nil
}

// ValidateSpacing validates the gap reserved between adjacent boxes.
func ValidateSpacing(spacing float64) error {
	if !isFinite(spacing) || spacing < 0 {
		return New(ErrCodeInvalidDimension, "spacing must not be negative, got %v", spacing)
	}
	return nil
}

// ValidateHost validates a host name or IP literal used for a socket.
// Empty hosts are rejected; callers substitute defaults before validating.
//
// Validation rules:
//   - No control characters or whitespace
//   - No scheme or path (the value is a bare host)
//   - Maximum length of 253 characters
func ValidateHost(host string) error {
	if host == "" {
		return New(ErrCodeInvalidConfig, "host cannot be empty")
	}

	const maxHostLength = 253
	if len(host) > maxHostLength {
		return New(ErrCodeInvalidConfig, "host too long (max %d characters)", maxHostLength)
	}

	for _, r := range host {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "host contains invalid characters: %q", host)
		}
	}

	if strings.ContainsAny(host, "/\\") {
		return New(ErrCodeInvalidConfig, "host must not contain a scheme or path: %q", host)
	}

	return nil
}

// ValidatePort validates a UDP/TCP port number.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return New(ErrCodeInvalidConfig, "port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// ValidateListenAddr validates a host:port listen address. An empty host
// (":8080") binds all interfaces and is accepted.
func ValidateListenAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "invalid listen address %q", addr)
	}
	if host != "" {
		if err := ValidateHost(host); err != nil {
			return err
		}
	}
	if port == "" {
		return New(ErrCodeInvalidConfig, "listen address %q has no port", addr)
	}
	return nil
}

// ValidateOSCAddress validates an OSC address pattern.
// OSC addresses start with '/' and contain no whitespace or '#'.
func ValidateOSCAddress(address string) error {
	if !strings.HasPrefix(address, "/") {
		return New(ErrCodeInvalidConfig, "OSC address must start with '/': %q", address)
	}
	for _, r := range address {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == '#' {
			return New(ErrCodeInvalidConfig, "OSC address contains invalid characters: %q", address)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
