package jsonbin

import "fmt"

// The store rejected a write, or answered it with a body that is not JSON.
// Message is the server-reported message when there is one, otherwise the HTTP status text.
type StoreWriteError struct {
	StatusCode int
	Message    string
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("failed to write markers (%d): %s", e.StatusCode, e.Message)
}
