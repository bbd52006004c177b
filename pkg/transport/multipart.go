package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"

	"github.com/tansive/sdkcore/pkg/fileparam"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart writes formData as multipart/form-data. Fields are written in name order.
// File values (fileparam.FileParam or a descriptor) become file parts; anything else is
// formatted with fmt. Nil values are skipped.
func encodeMultipart(formData map[string]any) ([]byte, string, error) {
	names := make([]string, 0, len(formData))
	for name := range formData {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		var err error
		switch v := formData[name].(type) {
		case nil:
			continue
		case fileparam.FileParam:
			err = writeFilePart(w, name, v)
		case fileparam.FileDescriptor, *fileparam.FileDescriptor:
			err = writeFilePart(w, name, fileparam.FileParam{Data: v})
		case string:
			err = w.WriteField(name, v)
		default:
			err = w.WriteField(name, fmt.Sprint(v))
		}
		if err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", ErrInvalidRequest.MsgErr("unable to encode form data", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, name string, param fileparam.FileParam) error {
	fd, err := fileparam.Build(param)
	if err != nil {
		return ErrInvalidRequest.MsgErr("invalid file for form field "+name, err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(name), quoteEscaper.Replace(fd.Options.Filename)))
	h.Set("Content-Type", fd.Options.ContentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return ErrInvalidRequest.MsgErr("unable to create form part "+name, err)
	}
	if _, err := io.Copy(part, fd.Value.Reader()); err != nil {
		return ErrInvalidRequest.MsgErr("unable to write form part "+name, err)
	}
	return nil
}
