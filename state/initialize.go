package state

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

// SelectCodePage sets encoding of source files by its IANA name. Empty name
// and UTF-8 mean no decoding is necessary.
func (e *LocalEnv) SelectCodePage(name string) error {
	e.CodePage = nil
	if len(name) == 0 {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return fmt.Errorf("unknown source code page %q: %w", name, err)
	}
	if enc == nil {
		return fmt.Errorf("unsupported source code page %q", name)
	}
	if enc == unicode.UTF8 {
		return nil
	}
	e.CodePage = enc
	if e.Log != nil {
		n, _ := ianaindex.IANA.Name(enc)
		e.Log.Debug("Using source code page", zap.String("name", n))
	}
	return nil
}
