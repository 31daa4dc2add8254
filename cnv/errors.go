package cnv

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every ConfigError with errors.Is.
	ErrConfiguration = errors.New("configuration error")
	// ErrData matches every DataError with errors.Is.
	ErrData = errors.New("data error")
)

// ConfigError reports an invalid parameter or parameter combination. It is raised before
// any computation starts.
type ConfigError struct {
	Param string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Param, e.Msg)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// DataError reports malformed or inconsistent input for one unit of work (a sample or a
// sample:chromosome pair).
type DataError struct {
	Unit string
	Msg  string
}

func (e *DataError) Error() string {
	if e.Unit == "" {
		return "data error: " + e.Msg
	}
	return fmt.Sprintf("data error: %s: %s", e.Unit, e.Msg)
}

func (e *DataError) Is(target error) bool {
	return target == ErrData
}
