package forecast

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrNotReady          = errors.New("forecast service is not ready: engine failed to load")
	ErrInvalidTargetDate = errors.New("target_date has an invalid format, expected YYYYMMDD")
	ErrPastTargetDate    = errors.New("target date cannot be in the past")
	ErrNoDailyData       = errors.New("no daily data received from the forecast engine")
)

// EngineError is an unexpected engine failure. Class is safe to show to
// callers; Err is for server-side diagnostics only.
type EngineError struct {
	Class string
	Err   error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("forecast engine failed: %s", e.Class)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// errorClass names the concrete type behind err, looking through plain
// fmt.Errorf wrappers. "*url.Error" is reported as "url.Error".
func errorClass(err error) string {
	for err != nil {
		name := typeName(err)
		if name != "fmt.wrapError" && name != "fmt.wrapErrors" {
			return name
		}
		next := errors.Unwrap(err)
		if next == nil {
			return name
		}
		err = next
	}
	return "nil"
}

func typeName(v interface{}) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	return strings.TrimPrefix(t.String(), "*")
}
