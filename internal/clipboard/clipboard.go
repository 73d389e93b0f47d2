// Package clipboard copies text to the system clipboard, preferring the
// native capability and falling back to a temporary selection driven through
// a legacy copy command.
package clipboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	// ErrCopyFailed is returned when the legacy copy command reports failure.
	ErrCopyFailed = errors.New("copy command failed")
	// ErrUnavailable is returned when no strategy can be used.
	ErrUnavailable = errors.New("clipboard unavailable")
)

// Capabilities describes what the current context allows.
type Capabilities struct {
	SecureContext bool
	Native        bool
}

// Detector reports the capabilities at call time.
type Detector func() Capabilities

// Writer is the native clipboard capability.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// Field is the temporary, off-screen holder of the text being copied.
type Field interface {
	Focus() error
	SelectAll() error
	Remove() error
}

// Document creates fields and runs the legacy copy command on a selection.
type Document interface {
	CreateField(text string) (Field, error)
	ExecCopy(ctx context.Context, f Field) bool
}

// Strategy is one way of copying text.
type Strategy interface {
	Name() string
	Copy(ctx context.Context, text string) error
}

// Service selects a strategy per call from the detector result.
type Service struct {
	detect Detector
	native Writer
	legacy Document
	log    logrus.FieldLogger
}

// NewService wires a service. native or legacy may be nil when that path does
// not exist on this platform.
func NewService(detect Detector, native Writer, legacy Document, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if detect == nil {
		detect = func() Capabilities { return Capabilities{} }
	}
	return &Service{detect: detect, native: native, legacy: legacy, log: log.WithField("component", "clipboard")}
}

// Strategy returns the strategy a copy issued now would use.
func (s *Service) Strategy() (Strategy, error) {
	caps := s.detect()
	if caps.SecureContext && caps.Native && s.native != nil {
		return nativeStrategy{w: s.native}, nil
	}
	if s.legacy != nil {
		return legacyStrategy{doc: s.legacy}, nil
	}
	return nil, ErrUnavailable
}

// Copy puts text on the clipboard.
func (s *Service) Copy(ctx context.Context, text string) error {
	st, err := s.Strategy()
	if err != nil {
		return err
	}
	if err := st.Copy(ctx, text); err != nil {
		s.log.WithField("strategy", st.Name()).WithError(err).Debug("copy failed")
		return err
	}
	return nil
}

type nativeStrategy struct {
	w Writer
}

func (nativeStrategy) Name() string { return "native" }

func (n nativeStrategy) Copy(ctx context.Context, text string) error {
	return n.w.WriteText(ctx, text)
}

type legacyStrategy struct {
	doc Document
}

func (legacyStrategy) Name() string { return "legacy" }

// Copy always removes the temporary field, whatever the outcome.
func (l legacyStrategy) Copy(ctx context.Context, text string) (err error) {
	f, err := l.doc.CreateField(text)
	if err != nil {
		return fmt.Errorf("create selection field: %w", err)
	}
	defer func() {
		if rerr := f.Remove(); rerr != nil && err == nil {
			err = fmt.Errorf("remove selection field: %w", rerr)
		}
	}()
	if err := f.Focus(); err != nil {
		return fmt.Errorf("focus selection field: %w", err)
	}
	if err := f.SelectAll(); err != nil {
		return fmt.Errorf("select field contents: %w", err)
	}
	if !l.doc.ExecCopy(ctx, f) {
		return ErrCopyFailed
	}
	return nil
}
