package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError
	ListDirError

	// Logging errors
	CreateLogFileError

	// Taxonomy errors
	TaxonomyLineError
	TaxonomyEmptyIDError
	TaxonomyDuplicateError
	TaxonomyNoRootError
	TaxonomyMissingParentError
	TaxonomyDisconnectedError

	// Classification errors
	ClassificationLineError
	ClassificationUnknownTaxonError

	// Report errors
	ReportArgsError
	ReportNoInputsError
	ReportInputsFailedError
	ReportCancelledError

	// Store errors
	StoreOpenError
	StoreWriteError
)
