package counts

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnkreport/pkg/errcode"
)

// UnknownTaxonError is returned when classification refers to a taxon
// that is absent from the taxonomy.
func UnknownTaxonError(id string) error {
	msg := `Taxon <em>%s</em> from classification is not in taxonomy

<em>How to fix:</em>
  Use the taxonomy file built from the same database as the classification`
	vars := []any{id}
	return &gn.Error{
		Code: errcode.ClassificationUnknownTaxonError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown taxon %s", id),
	}
}

// LineError is returned for a classification line that cannot be parsed.
func LineError(lineNum int, line string, err error) error {
	msg := "Cannot parse classification line <em>%d</em>: %s"
	vars := []any{lineNum, line}
	return &gn.Error{
		Code: errcode.ClassificationLineError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("line %d: %w", lineNum, err),
	}
}
