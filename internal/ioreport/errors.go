package ioreport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnkreport/pkg/errcode"
)

func ArgsError(reason string) error {
	msg := `Wrong arguments: %s

<em>Usage:</em>
  gnkreport report -t TAXONOMY -i INPUT -o OUTPUT
  gnkreport report -t TAXONOMY --input-dir DIR --output-dir DIR`
	vars := []any{reason}
	return &gn.Error{
		Code: errcode.ReportArgsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("wrong arguments: %s", reason),
	}
}

func NoInputsError(dir string) error {
	msg := "No classification files found in <em>%s</em>"
	vars := []any{dir}
	return &gn.Error{
		Code: errcode.ReportNoInputsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no input files in %s", dir),
	}
}

func InputsFailedError(failed []string, total int) error {
	msg := `Reports failed for <em>%d</em> out of <em>%d</em> files:
  %s`
	vars := []any{len(failed), total, strings.Join(failed, "\n  ")}
	return &gn.Error{
		Code: errcode.ReportInputsFailedError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("%d of %d inputs failed: %s",
			len(failed), total, strings.Join(failed, ", ")),
	}
}

func CancelledError(done, total int, err error) error {
	msg := "Interrupted after <em>%d</em> out of <em>%d</em> files"
	vars := []any{done, total}
	return &gn.Error{
		Code: errcode.ReportCancelledError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cancelled: %w", err),
	}
}

// FileError adds the input path to an error, keeping its code.
func FileError(path string, err error) error {
	var gnErr *gn.Error
	if !errors.As(err, &gnErr) {
		return &gn.Error{
			Code: errcode.UnknownError,
			Msg:  "<em>%s</em>: %s",
			Vars: []any{path, err.Error()},
			Err:  fmt.Errorf("%s: %w", path, err),
		}
	}
	return &gn.Error{
		Code: gnErr.Code,
		Msg:  "<em>%s</em>: " + gnErr.Msg,
		Vars: append([]any{path}, gnErr.Vars...),
		Err:  fmt.Errorf("%s: %w", path, gnErr.Err),
	}
}
