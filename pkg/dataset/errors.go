package dataset

import "errors"

var (
	ErrFileNotFound     = errors.New("dataset file not found")
	ErrEmptyFile        = errors.New("dataset file is empty")
	ErrUnreadableFormat = errors.New("dataset file is not readable csv")
	ErrColumnNotFound   = errors.New("column not found")
	ErrColumnNotNumeric = errors.New("column is not numeric")
)
