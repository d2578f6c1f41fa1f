package model

// Notifier defines a generic interface for sending run notifications.
type Notifier interface {
	Send(subject, body string) error
}
