package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ReadCRTokenFile returns the full contents of a compute resource token file.
// A missing file and an empty file both fail with an error derived from ErrCRTokenFile;
// the messages tell the two apart.
func ReadCRTokenFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrCRTokenFile.Msg(fmt.Sprintf("CR token file %q does not exist", path))
		}
		return "", ErrCRTokenFile.MsgErr(fmt.Sprintf("unable to read CR token file %q", path), err)
	}
	if len(content) == 0 {
		return "", ErrCRTokenFile.Msg(fmt.Sprintf("CR token file %q is empty", path))
	}
	return string(content), nil
}
