// Package wmerrors defines the error taxonomy shared by every window
// manager component: tag/client lookup failures, invalid state
// operations, and free-form OS/configuration failures.
package wmerrors

import "fmt"

// Kind discriminates the handful of error shapes the window manager
// ever produces. Handlers branch on Kind instead of comparing strings.
type Kind int

const (
	// KindTagNotFound means a lookup against the screen's tag list failed.
	KindTagNotFound Kind = iota
	// KindClientNotFound means a lookup within a tag's client list failed.
	KindClientNotFound
	// KindInvalidOperation means a state mutation received an unknown
	// Add/Remove/Toggle selector.
	KindInvalidOperation
	// KindCustom is a free-form error used for OS-level and
	// configuration-level failures.
	KindCustom
)

// Error is the single error type used throughout the window manager.
type Error struct {
	Kind Kind

	// TagID and ClientID are populated for KindTagNotFound and
	// KindClientNotFound respectively.
	TagID    uint32
	ClientID uint32

	// Message carries the text for KindCustom and is also used as a
	// human-readable label for KindInvalidOperation.
	Message string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTagNotFound:
		return fmt.Sprintf("tag with ID %d not found", e.TagID)
	case KindClientNotFound:
		return fmt.Sprintf("client with ID %d not found", e.ClientID)
	case KindInvalidOperation:
		if e.Message != "" {
			return e.Message
		}
		return "invalid operation"
	case KindCustom:
		return e.Message
	default:
		return "unknown error"
	}
}

// TagNotFound builds a KindTagNotFound error for the given tag ID.
func TagNotFound(id uint32) error {
	return &Error{Kind: KindTagNotFound, TagID: id}
}

// ClientNotFound builds a KindClientNotFound error for the given client ID.
func ClientNotFound(id uint32) error {
	return &Error{Kind: KindClientNotFound, ClientID: id}
}

// InvalidOperation builds a KindInvalidOperation error, used when a
// state mutation receives an unrecognized Add/Remove/Toggle selector.
func InvalidOperation(msg string) error {
	if msg == "" {
		msg = "invalid operation"
	}
	return &Error{Kind: KindInvalidOperation, Message: msg}
}

// Custom builds a free-form KindCustom error.
func Custom(msg string) error {
	return &Error{Kind: KindCustom, Message: msg}
}

// Is allows errors.Is(err, wmerrors.TagNotFound(0)) style kind checks
// without requiring the caller to know the offending ID.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
