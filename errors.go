/*
Package bisect provides binary search functionality over line-sorted,
LF-terminated text files by random access, without loading the file or
any index into memory.
*/
package bisect

import "errors"

var (
	// ErrNotSeekable is returned by Open when the underlying file
	// descriptor cannot be positioned (e.g. a pipe or socket).
	ErrNotSeekable = errors.New("bisect: input not seekable, cannot binary search")

	// ErrNotFile is returned by Open when path exists but is a directory.
	ErrNotFile = errors.New("bisect: path exists but is not a file")

	// ErrShortWrite is returned by Engine.ReadRange when its sink does
	// not accept all the bytes handed to it.
	ErrShortWrite = errors.New("bisect: short write to sink")
)
