package taxonomy

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnkreport/pkg/errcode"
)

// EmptyTaxonIDError is returned for a taxonomy record without taxon ID.
func EmptyTaxonIDError(name string) error {
	msg := "Taxonomy record <em>%s</em> has an empty taxon ID"
	vars := []any{name}
	return &gn.Error{
		Code: errcode.TaxonomyEmptyIDError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("empty taxon ID for record %q", name),
	}
}

// DuplicateTaxonError is returned when a taxon ID appears twice.
func DuplicateTaxonError(id string) error {
	msg := "Taxon ID <em>%s</em> appears more than once in taxonomy"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.TaxonomyDuplicateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("duplicate taxon ID %s", id),
	}
}

// NoRootError is returned when taxonomy has no record with RootID.
func NoRootError() error {
	msg := `Taxonomy has no root

<em>How to fix:</em>
  Make sure the table contains a record with taxon ID <em>%s</em>`
	vars := []any{RootID}
	return &gn.Error{
		Code: errcode.TaxonomyNoRootError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no root taxon %s in taxonomy", RootID),
	}
}

// MissingParentError is returned when a taxon refers to a parent that
// does not exist in the taxonomy.
func MissingParentError(id, parentID string) error {
	msg := "Taxon <em>%s</em> refers to unknown parent <em>%s</em>"
	vars := []any{id, parentID}
	return &gn.Error{
		Code: errcode.TaxonomyMissingParentError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("taxon %s: parent %q not found", id, parentID),
	}
}

// DisconnectedTaxonError is returned when a taxon cannot be reached from the
// root, which happens when parent links form a cycle.
func DisconnectedTaxonError(id string) error {
	msg := "Taxon <em>%s</em> is not connected to the root (circular parents?)"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.TaxonomyDisconnectedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("taxon %s is not reachable from root", id),
	}
}
