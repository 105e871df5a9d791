package record

import "fmt"

// FormatError reports input that does not match the described layout:
// validation failures, short reads and byte-count mismatches. Every decode
// failure in this module and its callers is a *FormatError.
type FormatError struct {
	msg string
}

func (e *FormatError) Error() string {
	return e.msg
}

// Errorf builds a FormatError in fmt style.
func Errorf(format string, args ...interface{}) *FormatError {
	return &FormatError{msg: fmt.Sprintf(format, args...)}
}
