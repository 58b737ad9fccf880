package iotaxonomy

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnkreport/pkg/errcode"
)

// LineError is returned for a taxonomy line that cannot be parsed.
func LineError(lineNum int, line string, err error) error {
	msg := `Cannot parse taxonomy line <em>%d</em>: %s

<em>Expected format:</em>
  taxid\t|\tparent_taxid\t|\trank\t|\tdepth\t|\tname`
	vars := []any{lineNum, line}
	return &gn.Error{
		Code: errcode.TaxonomyLineError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("taxonomy line %d: %w", lineNum, err),
	}
}

// withPath adds the file path to a line error.
func withPath(path string, err error) error {
	var gnErr *gn.Error
	if !errors.As(err, &gnErr) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return &gn.Error{
		Code: gnErr.Code,
		Msg:  "<em>%s</em>: " + gnErr.Msg,
		Vars: append([]any{path}, gnErr.Vars...),
		Err:  fmt.Errorf("%s: %w", path, gnErr.Err),
	}
}
