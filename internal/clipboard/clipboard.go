// Package clipboard copies message text to and from the system clipboard.
package clipboard

import (
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/scrollback/internal/errors"
	"github.com/zhubert/scrollback/internal/logger"
)

var log = logger.WithComponent("Clipboard")

var (
	mu          sync.Mutex
	initialized bool
	initErr     error

	// Replaced in tests.
	initFn  = clipboard.Init
	writeFn = func(b []byte) { clipboard.Write(clipboard.FmtText, b) }
	readFn  = func() []byte { return clipboard.Read(clipboard.FmtText) }
)

// Init initializes the clipboard. Must be called before other functions.
// This is safe to call multiple times; a failure is remembered.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked()
}

func initLocked() error {
	if initialized {
		return initErr
	}
	initialized = true

	if err := initFn(); err != nil {
		log.Warn("failed to initialize", "error", err)
		initErr = errors.E(errors.Op("clipboard.Init"), errors.KindIO, "clipboard unavailable", err)
		return initErr
	}
	log.Debug("initialized")
	return nil
}

// WriteText writes text to the clipboard.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()
	if err := initLocked(); err != nil {
		return err
	}

	writeFn([]byte(text))
	log.Debug("wrote text", "bytes", len(text))
	return nil
}

// ReadText reads text from the clipboard.
func ReadText() (string, error) {
	mu.Lock()
	defer mu.Unlock()
	if err := initLocked(); err != nil {
		return "", err
	}

	b := readFn()
	if b == nil {
		return "", nil
	}
	return string(b), nil
}

// reset clears the initialization state.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	initialized = false
	initErr = nil
}
