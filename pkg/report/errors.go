package report

import (
	"errors"
	"fmt"
)

var (
	ErrUnparseableFileName = errors.New("unparseable report file name")
	ErrNoBackend           = errors.New("no PDF backend could read the document")
	ErrEmptyDocument       = errors.New("empty document")
)

// FileError ties a failure to the report file it happened on
type FileError struct {
	FileName string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("report %s: %v", e.FileName, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
