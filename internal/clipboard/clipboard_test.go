package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	got []string
	err error
}

func (w *fakeWriter) WriteText(_ context.Context, text string) error {
	w.got = append(w.got, text)
	return w.err
}

type fakeField struct {
	doc      *fakeDocument
	text     string
	focused  bool
	selected bool
}

func (f *fakeField) Focus() error     { f.focused = true; return nil }
func (f *fakeField) SelectAll() error { f.selected = f.focused; return nil }
func (f *fakeField) Remove() error    { f.doc.removed++; return nil }

type fakeDocument struct {
	ok      bool
	created int
	removed int
	copied  []string
}

func (d *fakeDocument) CreateField(text string) (Field, error) {
	d.created++
	return &fakeField{doc: d, text: text}, nil
}

func (d *fakeDocument) ExecCopy(_ context.Context, f Field) bool {
	ff := f.(*fakeField)
	if ff.selected {
		d.copied = append(d.copied, ff.text)
	}
	return d.ok
}

func caps(secure, native bool) Detector {
	return func() Capabilities { return Capabilities{SecureContext: secure, Native: native} }
}

func TestNativePathWhenSecureAndCapable(t *testing.T) {
	w := &fakeWriter{}
	doc := &fakeDocument{ok: true}
	s := NewService(caps(true, true), w, doc, nil)

	require.NoError(t, s.Copy(context.Background(), "hello"))
	assert.Equal(t, []string{"hello"}, w.got)
	assert.Zero(t, doc.created)

	st, err := s.Strategy()
	require.NoError(t, err)
	assert.Equal(t, "native", st.Name())
}

func TestNativeFailurePropagatesWithoutFallback(t *testing.T) {
	w := &fakeWriter{err: errors.New("denied")}
	doc := &fakeDocument{ok: true}
	s := NewService(caps(true, true), w, doc, nil)

	err := s.Copy(context.Background(), "x")
	assert.EqualError(t, err, "denied")
	assert.Zero(t, doc.created)
}

func TestLegacyPathWhenNotSecure(t *testing.T) {
	for _, c := range []Capabilities{{SecureContext: false, Native: true}, {SecureContext: true, Native: false}} {
		w := &fakeWriter{}
		doc := &fakeDocument{ok: true}
		s := NewService(func() Capabilities { return c }, w, doc, nil)

		require.NoError(t, s.Copy(context.Background(), "abc"))
		assert.Empty(t, w.got)
		assert.Equal(t, []string{"abc"}, doc.copied)
		assert.Equal(t, 1, doc.removed)
	}
}

func TestLegacyFailureStillRemovesField(t *testing.T) {
	doc := &fakeDocument{ok: false}
	s := NewService(caps(false, false), nil, doc, nil)

	err := s.Copy(context.Background(), "abc")
	assert.True(t, errors.Is(err, ErrCopyFailed))
	assert.Equal(t, 1, doc.created)
	assert.Equal(t, 1, doc.removed)
}

func TestNoStrategyAvailable(t *testing.T) {
	s := NewService(nil, nil, nil, nil)
	assert.True(t, errors.Is(s.Copy(context.Background(), "x"), ErrUnavailable))
}

func TestOSC52WritesEscapeSequence(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")
	var buf bytes.Buffer
	require.NoError(t, OSC52{Out: &buf}.WriteText(context.Background(), "hi"))
	assert.Contains(t, buf.String(), "52;c;"+base64.StdEncoding.EncodeToString([]byte("hi")))
}

func TestTerminalDetectorOnRegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "clip")
	require.NoError(t, err)
	defer f.Close()
	c := TerminalDetector(f)()
	assert.False(t, c.SecureContext)
	assert.Equal(t, Capabilities{}, TerminalDetector(nil)())
}

func TestCommandDocumentCopiesAndCleansUp(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "clipboard.txt")
	doc := CommandDocument{Command: []string{"sh", "-c", "cat > " + out}, Dir: dir}
	s := NewService(caps(false, false), nil, doc, nil)

	require.NoError(t, s.Copy(context.Background(), "copied text"))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "copied text", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary field must be removed")
}

func TestCommandDocumentFailingCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	dir := t.TempDir()
	doc := CommandDocument{Command: []string{"sh", "-c", "exit 1"}, Dir: dir}
	s := NewService(caps(false, false), nil, doc, nil)

	assert.True(t, errors.Is(s.Copy(context.Background(), "x"), ErrCopyFailed))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
