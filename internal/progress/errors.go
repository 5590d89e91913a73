package progress

import (
	"fmt"
	"strings"
)

// PersistError reports that some keys could not be written. The in-memory
// state has already been updated and stays authoritative; the next
// successful persist writes all accumulated changes.
type PersistError struct {
	Keys []string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist progress (%s): %v", strings.Join(e.Keys, ", "), e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
