package visca2uvc

// ControlError is the uniform failure shape for every device control
// operation. Op is the name of the call that failed ("init", "find_device",
// "open", "get_zoom_abs", ...), Err the transport's own error. It is never
// produced on success.
type ControlError struct {
	Op  string
	Err error
}

func (e *ControlError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ControlError) Unwrap() error {
	return e.Err
}

// UsageError reports a malformed command line before any device call is
// made: wrong argument count or an argument that does not parse as its field
// type.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}
