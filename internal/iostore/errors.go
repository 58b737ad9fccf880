package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnkreport/pkg/errcode"
)

func OpenError(path string, err error) error {
	msg := `Cannot open report database <em>%s</em>

<em>How to fix:</em>
  Check that the directory exists and is writable`
	vars := []any{path}
	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot open sqlite %s: %w", path, err),
	}
}

func WriteError(path, input string, err error) error {
	msg := "Cannot save report of <em>%s</em> to <em>%s</em>"
	vars := []any{input, path}
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot save report of %s: %w", input, err),
	}
}
