package fileparam

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/tansive/sdkcore/internal/common/apperrors"
)

const (
	// DefaultFilename is used when no filename is given and none can be derived.
	DefaultFilename = "_"

	// DefaultContentType is used when no content type is given and sniffing finds nothing.
	DefaultContentType = "application/octet-stream"

	// sniffLen is enough of the head of a buffer for filetype matching.
	sniffLen = 261
)

var (
	// ErrInvalidFileParam is the base error for the package.
	ErrInvalidFileParam = apperrors.New("invalid file parameter")

	// ErrMissingFileData is returned when FileParam.Data is nil.
	ErrMissingFileData = ErrInvalidFileParam.New("file data is required")

	// ErrUnsupportedFileData is returned when FileParam.Data has a type that is not file-like.
	ErrUnsupportedFileData = ErrInvalidFileParam.New("unsupported file data")
)

// FileOptions carries the multipart metadata of a file part.
type FileOptions struct {
	Filename    string
	ContentType string
}

// FileDescriptor is the canonical form of a file part.
type FileDescriptor struct {
	Value   Value
	Options FileOptions
}

// FileParam is what generated operations hand to Build. Data may be a FileDescriptor
// (or pointer to one), a Value, []byte, string, *os.File, a reader exposing Path() or
// Name(), or any other io.Reader.
type FileParam struct {
	Data        any
	Filename    string
	ContentType string
}

type pathReader interface {
	io.Reader
	Path() string
}

type namedReader interface {
	io.Reader
	Name() string
}

// Build returns the canonical descriptor for param. Explicit filename and content type
// take precedence over those nested in an existing descriptor; missing ones are derived.
func Build(param FileParam) (*FileDescriptor, error) {
	value, nested, err := ingest(param.Data)
	if err != nil {
		return nil, err
	}

	opts := nested
	if param.Filename != "" {
		opts.Filename = param.Filename
	}
	if param.ContentType != "" {
		opts.ContentType = param.ContentType
	}

	if opts.Filename == "" {
		opts.Filename = filenameOf(value)
	}
	if opts.ContentType == "" {
		opts.ContentType = sniffContentType(value)
	}

	return &FileDescriptor{Value: value, Options: opts}, nil
}

func ingest(data any) (Value, FileOptions, error) {
	switch d := data.(type) {
	case nil:
		return Value{}, FileOptions{}, ErrMissingFileData
	case FileDescriptor:
		if d.Value.Kind() == kindUnset {
			return Value{}, FileOptions{}, ErrMissingFileData
		}
		return d.Value, d.Options, nil
	case *FileDescriptor:
		if d == nil || d.Value.Kind() == kindUnset {
			return Value{}, FileOptions{}, ErrMissingFileData
		}
		return d.Value, d.Options, nil
	case Value:
		if d.Kind() == kindUnset {
			return Value{}, FileOptions{}, ErrMissingFileData
		}
		return d, FileOptions{}, nil
	case []byte:
		return Bytes(d), FileOptions{}, nil
	case string:
		return String(d), FileOptions{}, nil
	case *os.File:
		if d == nil {
			return Value{}, FileOptions{}, ErrMissingFileData
		}
		return PathStream(d, d.Name()), FileOptions{}, nil
	case pathReader:
		return PathStream(d, d.Path()), FileOptions{}, nil
	case namedReader:
		return PathStream(d, d.Name()), FileOptions{}, nil
	case io.Reader:
		return Stream(d), FileOptions{}, nil
	}
	return Value{}, FileOptions{}, ErrUnsupportedFileData.Msg(fmt.Sprintf("unsupported file data of type %T", data))
}

func filenameOf(v Value) string {
	if v.Kind() == KindPathStream && v.Path() != "" {
		return filepath.Base(v.Path())
	}
	return DefaultFilename
}

func sniffContentType(v Value) string {
	switch v.Kind() {
	case KindPathStream:
		if ct := contentTypeByExtension(v.Path()); ct != "" {
			return ct
		}
	case KindBytes:
		if ct := contentTypeByMagic(v.Data()); ct != "" {
			return ct
		}
	}
	return DefaultContentType
}

func contentTypeByExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	if kind := filetype.GetType(strings.TrimPrefix(strings.ToLower(ext), ".")); kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return ""
}

func contentTypeByMagic(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}
