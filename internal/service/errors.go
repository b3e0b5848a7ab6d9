package service

// InputError is a user-correctable validation failure. Its message is safe to show.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

func invalid(err error) error {
	return &InputError{Err: err}
}
