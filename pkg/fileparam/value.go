// Package fileparam canonicalizes file-like inputs for multipart requests. Whatever the caller
// passes is classified once into a Value and paired with a resolved filename and content type.
package fileparam

import (
	"bytes"
	"io"
)

// Kind discriminates the shapes a file value can take.
type Kind int

const (
	kindUnset Kind = iota
	// KindBytes is an in-memory buffer.
	KindBytes
	// KindStream is a reader with no known source path.
	KindStream
	// KindPathStream is a reader that was opened from a path on disk.
	KindPathStream
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindStream:
		return "stream"
	case KindPathStream:
		return "path-stream"
	}
	return "unknown"
}

// Value is the tagged representation of file content.
type Value struct {
	kind   Kind
	data   []byte
	reader io.Reader
	path   string
}

// Bytes wraps an in-memory buffer.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, data: b}
}

// String wraps text content. Plain strings are accepted for compatibility and carried as bytes.
func String(s string) Value {
	return Bytes([]byte(s))
}

// Stream wraps a reader with no source path.
func Stream(r io.Reader) Value {
	return Value{kind: KindStream, reader: r}
}

// PathStream wraps a reader that was opened from path.
func PathStream(r io.Reader, path string) Value {
	return Value{kind: KindPathStream, reader: r, path: path}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Path returns the source path of a path stream and "" otherwise.
func (v Value) Path() string {
	return v.path
}

// Data returns the buffer of a bytes value and nil otherwise.
func (v Value) Data() []byte {
	return v.data
}

// Reader returns the content. Bytes values yield a fresh reader on every call;
// streams can only be consumed once.
func (v Value) Reader() io.Reader {
	if v.kind == KindBytes {
		return bytes.NewReader(v.data)
	}
	return v.reader
}
