package tv

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeTransport indicates a socket-level failure (closed mid-exchange, reset, unreachable)
	ErrTypeTransport ErrorType = iota
	// ErrTypeTimeout indicates the TV did not answer in time
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening on the TV's control port
	ErrTypeConnectionRefused
	// ErrTypeProtocol indicates a malformed or out-of-order reply
	ErrTypeProtocol
	// ErrTypeDevice indicates the TV answered with an explicit error
	ErrTypeDevice
	// ErrTypePairing indicates registration was not accepted
	ErrTypePairing
	// ErrTypeValidation indicates invalid arguments
	ErrTypeValidation
	// ErrTypeUnknownState indicates the current 3D mode could not be determined
	ErrTypeUnknownState
	// ErrTypeConvergence indicates remote-button navigation did not reach the target mode
	ErrTypeConvergence
	// ErrTypeNotConnected indicates there is no session and none could be established
	ErrTypeNotConnected
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeProtocol:
		return "Protocol Error"
	case ErrTypeDevice:
		return "TV Error"
	case ErrTypePairing:
		return "Pairing Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeUnknownState:
		return "Unknown State"
	case ErrTypeConvergence:
		return "Convergence Error"
	case ErrTypeNotConnected:
		return "Not Connected"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error represents a failure talking to a TV
type Error struct {
	Type      ErrorType // Category of error
	Message   string    // Human-readable error message
	Host      string    // Session address (for context)
	Err       error     // Underlying error (if any)
	Retryable bool      // Whether reconnecting and retrying may help
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyTransportError analyzes a socket error and returns a typed error
func ClassifyTransportError(err error, host string) *Error {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &Error{
			Type:      ErrTypeTimeout,
			Message:   "TV did not respond in time",
			Host:      host,
			Err:       err,
			Retryable: true,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Type:    ErrTypeTransport,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Host:    host,
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &Error{
				Type:      ErrTypeConnectionRefused,
				Message:   "TV refused connection",
				Host:      host,
				Err:       err,
				Retryable: true,
			}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return &Error{
				Type:      ErrTypeTransport,
				Message:   "Host unreachable",
				Host:      host,
				Err:       err,
				Retryable: true,
			}
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &Error{
				Type:      ErrTypeTransport,
				Message:   "Network unreachable",
				Host:      host,
				Err:       err,
				Retryable: true,
			}
		}
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) || errors.Is(err, websocket.ErrCloseSent) {
		return &Error{
			Type:      ErrTypeTransport,
			Message:   "Connection closed by TV",
			Host:      host,
			Err:       err,
			Retryable: true,
		}
	}

	return &Error{
		Type:      ErrTypeTransport,
		Message:   "Network error occurred",
		Host:      host,
		Err:       err,
		Retryable: true,
	}
}

// newTransportError classifies err and replaces its message
func newTransportError(message string, err error, host string) *Error {
	classified := ClassifyTransportError(err, host)
	if classified == nil {
		return &Error{Type: ErrTypeTransport, Message: message, Host: host, Retryable: true}
	}
	classified.Message = message
	return classified
}

func newProtocolError(message string, err error, host string) *Error {
	return &Error{
		Type:    ErrTypeProtocol,
		Message: message,
		Host:    host,
		Err:     err,
	}
}

func newDeviceError(message string, host string) *Error {
	return &Error{
		Type:    ErrTypeDevice,
		Message: message,
		Host:    host,
	}
}

func newPairingError(message string, host string) *Error {
	return &Error{
		Type:    ErrTypePairing,
		Message: message,
		Host:    host,
	}
}

func newNotConnectedError(message string, err error) *Error {
	return &Error{
		Type:      ErrTypeNotConnected,
		Message:   message,
		Err:       err,
		Retryable: err != nil,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *Error {
	return &Error{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

func newUnknownStateError(message string) *Error {
	return &Error{
		Type:    ErrTypeUnknownState,
		Message: message,
	}
}

func newConvergenceError(message string) *Error {
	return &Error{
		Type:      ErrTypeConvergence,
		Message:   message,
		Retryable: true,
	}
}

func errorType(err error) (ErrorType, bool) {
	var tvErr *Error
	if errors.As(err, &tvErr) {
		return tvErr.Type, true
	}
	return 0, false
}

// IsTransportError checks if an error is a socket-level error (including timeout and refused)
func IsTransportError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeTransport || t == ErrTypeTimeout || t == ErrTypeConnectionRefused)
}

// IsProtocolError checks if an error is a protocol error
func IsProtocolError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeProtocol
}

// IsDeviceError checks if the TV reported an error
func IsDeviceError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeDevice
}

// IsPairingError checks if registration failed
func IsPairingError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypePairing
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeValidation
}

// IsUnknownStateError checks if the TV's 3D mode could not be determined
func IsUnknownStateError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeUnknownState
}

// IsConvergenceError checks if a 3D switch did not reach its target
func IsConvergenceError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeConvergence
}

// IsNotConnected checks if an error means there is no session
func IsNotConnected(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeNotConnected
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var tvErr *Error
	if errors.As(err, &tvErr) {
		return tvErr.Retryable
	}
	return false
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var tvErr *Error
	if !errors.As(err, &tvErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch tvErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The TV did not respond in time.",
			"Troubleshooting:",
			"  • Check that the TV is switched on (not in standby)",
			"  • If a pairing prompt is showing on the TV, accept it",
			"  • Verify the TV and this computer are on the same network",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The TV refused the connection.",
			"Troubleshooting:",
			"  • Enable 'LG Connect Apps' / 'Mobile TV On' in the TV's network settings",
			"  • The control port is 3000; check no firewall blocks it",
			"  • The TV may still be booting - wait a few seconds and retry",
		}, "\n")

	case ErrTypeTransport, ErrTypeNotConnected:
		hint := []string{"Could not talk to the TV."}
		if tvErr.Host != "" {
			hint = append(hint, "Address: "+tvErr.Host)
		}
		hint = append(hint,
			"Troubleshooting:",
			"  • Verify the TV's IP address (try 'webos3d scan')",
			"  • Check that the TV is switched on",
			"  • Ensure you're on the same network as the TV",
		)
		return strings.Join(hint, "\n")

	case ErrTypePairing:
		return strings.Join([]string{
			"The TV did not accept the pairing request.",
			"Troubleshooting:",
			"  • Run 'webos3d pair' and accept the prompt on the TV",
			"  • If the TV was reset, the stored client key is no longer valid",
		}, "\n")

	case ErrTypeProtocol:
		return strings.Join([]string{
			"The TV sent an unexpected reply.",
			"Troubleshooting:",
			"  • Retry the command; a new session is opened automatically",
			"  • Run with WEBOS3D_LOG_LEVEL=debug to see the exchanged frames",
		}, "\n")

	case ErrTypeDevice:
		return "The TV rejected the command. It may not be supported by this model or firmware."

	case ErrTypeUnknownState:
		return "The TV did not report a known 3D mode. Check that 3D content is playing and retry."

	case ErrTypeConvergence:
		return strings.Join([]string{
			"Remote-button navigation did not reach the requested 3D mode.",
			"Troubleshooting:",
			"  • Make sure nothing else is using the remote while switching",
			"  • Retry; the TV sometimes drops button presses while the menu opens",
		}, "\n")

	case ErrTypeValidation:
		return "The arguments are invalid. Check the error message for details."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var tvErr *Error
	if !errors.As(err, &tvErr) {
		return err.Error()
	}

	switch tvErr.Type {
	case ErrTypeTimeout:
		return "TV not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "TV refused connection - is it switched on?"
	case ErrTypeTransport:
		return "Connection to TV lost"
	case ErrTypeNotConnected:
		return "Not connected to a TV"
	case ErrTypePairing:
		return "Pairing failed: " + tvErr.Message
	case ErrTypeDevice:
		return "TV error: " + tvErr.Message
	default:
		return tvErr.Message
	}
}
