package counts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinFields is the smallest number of tab-separated fields in a
// classification line.
const MinFields = 4

// Mode determines the weight of a classification record.
type Mode int

const (
	// ReadCount gives every record the weight of 1.
	ReadCount Mode = iota
	// ReadLength uses the length field of a record as its weight. Paired
	// reads have the form 'len1|len2' and weigh 'len1 + len2'.
	ReadLength
)

// NewMode returns ReadLength if useReadLength is true, ReadCount otherwise.
func NewMode(useReadLength bool) Mode {
	if useReadLength {
		return ReadLength
	}
	return ReadCount
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ReadLength:
		return "read-length"
	default:
		return "read-count"
	}
}

// ErrLength is wrapped by errors about unusable length fields.
var ErrLength = errors.New("bad read length")

// Weight returns the weight of a record with the given length field.
func (m Mode) Weight(lengthField string) (int64, error) {
	if m != ReadLength {
		return 1, nil
	}

	parts := strings.Split(lengthField, "|")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two parts", ErrLength, lengthField)
	}

	var res int64
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrLength, lengthField, err)
		}
		if n < 0 {
			return 0, fmt.Errorf("%w: %q is negative", ErrLength, lengthField)
		}
		res += n
	}
	return res, nil
}

// ErrFields is wrapped by errors about lines with too few fields.
var ErrFields = errors.New("not enough fields")

// Record is a parsed classification line.
type Record struct {
	TaxonID string
	Weight  int64
}

// Parse converts a tab-separated classification line into a Record.
// The third field is the taxon ID and the fourth is the length field.
func Parse(line string, mode Mode) (Record, error) {
	var res Record
	fields := strings.Split(strings.TrimSpace(line), "\t")
	if len(fields) < MinFields {
		return res, fmt.Errorf("%w: want at least %d, got %d",
			ErrFields, MinFields, len(fields))
	}

	w, err := mode.Weight(fields[3])
	if err != nil {
		return res, err
	}

	res.TaxonID = fields[2]
	res.Weight = w
	return res, nil
}
