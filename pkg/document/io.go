package document

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentstation/iibkit/pkg/constants"
	"github.com/agentstation/iibkit/pkg/errors"
	"github.com/agentstation/iibkit/pkg/save"
)

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError("document", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = path
			return nil, parseErr
		}
		return nil, errors.WrapParse("json", path, err)
	}
	return doc, nil
}

// Save pretty-prints doc to the configured writer, or atomically replaces
// the file at the configured path.
func Save(doc *Document, opts ...save.Option) error {
	options := save.Defaults().Apply(opts...)

	data, err := doc.MarshalIndent("", options.Indent())
	if err != nil {
		return err
	}

	if w := options.Writer(); w != nil {
		if _, err := w.Write(data); err != nil {
			return errors.WrapIO("write", "output", err)
		}
		return nil
	}

	if options.Path() == "" {
		return errors.NewConfigError("document", "save requires a path or a writer", nil)
	}
	return WriteFileAtomic(options.Path(), data)
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place. The existing file mode is kept, and a symlinked path is
// written through to its target. On failure path is left untouched.
func WriteFileAtomic(path string, data []byte) error {
	target := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		target = resolved
	}

	perm := fs.FileMode(constants.FilePermissions)
	if info, err := os.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}

	tempFile, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tempPath := tempFile.Name()

	cleanup := func(op string, err error) error {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return errors.WrapIO(op, target, err)
	}

	if _, err := tempFile.Write(data); err != nil {
		return cleanup("write", err)
	}
	if err := tempFile.Sync(); err != nil {
		return cleanup("sync", err)
	}
	if err := tempFile.Chmod(perm); err != nil {
		return cleanup("chmod", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("close", target, err)
	}

	if err := os.Rename(tempPath, target); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapIO("rename", target, err)
	}
	return nil
}
