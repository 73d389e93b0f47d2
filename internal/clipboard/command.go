package clipboard

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// CommandDocument implements the legacy path with a temporary file as the
// off-screen field and an external copy command reading the selection from
// stdin.
type CommandDocument struct {
	Command []string
	Dir     string
}

// DetectCommand returns the first clipboard command found on PATH.
func DetectCommand() []string {
	candidates := [][]string{
		{"wl-copy"},
		{"xclip", "-selection", "clipboard"},
		{"xsel", "--clipboard", "--input"},
	}
	switch runtime.GOOS {
	case "darwin":
		candidates = [][]string{{"pbcopy"}}
	case "windows":
		candidates = [][]string{{"clip.exe"}}
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err == nil {
			return c
		}
	}
	return nil
}

type fileField struct {
	path string
	f    *os.File
}

func (ff *fileField) Focus() error {
	if ff.f != nil {
		return nil
	}
	f, err := os.Open(ff.path)
	if err != nil {
		return err
	}
	ff.f = f
	return nil
}

func (ff *fileField) SelectAll() error {
	if ff.f == nil {
		return errors.New("field not focused")
	}
	_, err := ff.f.Seek(0, io.SeekStart)
	return err
}

func (ff *fileField) Remove() error {
	if ff.f != nil {
		_ = ff.f.Close()
		ff.f = nil
	}
	if err := os.Remove(ff.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CreateField implements Document.
func (d CommandDocument) CreateField(text string) (Field, error) {
	f, err := os.CreateTemp(d.Dir, "dashsync-clip-*")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}
	return &fileField{path: path}, nil
}

// ExecCopy implements Document.
func (d CommandDocument) ExecCopy(ctx context.Context, f Field) bool {
	ff, ok := f.(*fileField)
	if !ok || ff.f == nil || len(d.Command) == 0 {
		return false
	}
	cmd := exec.CommandContext(ctx, d.Command[0], d.Command[1:]...)
	cmd.Stdin = ff.f
	return cmd.Run() == nil
}
