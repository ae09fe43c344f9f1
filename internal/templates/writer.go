package templates

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
)

// WriteFile renders through fn and writes the result to path, replacing any
// existing file. Nothing is written when fn fails. The parent directory must exist.
func WriteFile(path string, fn func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	// #nosec G306 -- generated pages are public.
	if err := os.WriteFile(filepath.Clean(path), buf.Bytes(), 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write page").
			Fatal().WithContext("path", path).Build()
	}
	return nil
}
