package coredump

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against a *LoaderError.
var (
	ErrUnsupportedVersion = errors.New("unsupported core dump version")
	ErrUnsupportedChip    = errors.New("unsupported chip")
	ErrChecksum           = errors.New("checksum mismatch")
	ErrAppMismatch        = errors.New("core dump does not match application")
	ErrRegisters          = errors.New("cannot decode task registers")
)

// LoaderError is a fatal failure to load or extract a core dump container.
type LoaderError struct {
	// Op is the loader stage that failed (e.g. "version", "checksum", "registers")
	Op string
	// Msg adds detail such as expected and actual values
	Msg string
	// Underlying error
	Err error
}

func (e *LoaderError) Error() string {
	msg := fmt.Sprintf("core dump %s", e.Op)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return msg
}

func (e *LoaderError) Unwrap() error {
	return e.Err
}
