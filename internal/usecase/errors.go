package usecase

import "fmt"

// InputError is a notice about missing information the user must supply.
type InputError struct {
	Title       string
	Description string
}

func (e *InputError) Error() string { return e.Title + ": " + e.Description }

func missingInformation(description string) error {
	return &InputError{Title: "Missing Information", Description: description}
}

// RemoteError wraps a collaborator failure with the notice to show. The
// local document is never rolled back because of one.
type RemoteError struct {
	Title string
	Err   error
}

func (e *RemoteError) Error() string { return fmt.Sprintf("%s: %v", e.Title, e.Err) }
func (e *RemoteError) Unwrap() error { return e.Err }

func remote(title string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Title: title, Err: err}
}
