// Package counts attributes classified reads to taxa and propagates the
// counts up a taxonomy tree.
//
// An Aggregator collects direct weights per taxon. Partial aggregators
// created by parallel workers are merged together, and Counts turns the
// result into direct and cumulative maps for one classification file.
package counts

import (
	"maps"
	"slices"

	"github.com/gnames/gnkreport/pkg/taxonomy"
)

// Counts keeps read counts of one classification file.
type Counts struct {
	// Direct contains weights of reads assigned exactly to a taxon.
	Direct map[string]int64

	// Cumulative contains direct weights of a taxon plus weights of all
	// its descendants. Taxa without reads are absent.
	Cumulative map[string]int64

	// Records is the number of classification records that were read,
	// unclassified records included.
	Records int64

	// Weight is the sum of weights of all records, unclassified included.
	Weight int64
}

// Unclassified returns the weight of unclassified reads and true if any
// unclassified record was seen.
func (c *Counts) Unclassified() (int64, bool) {
	w, ok := c.Direct[taxonomy.UnclassifiedID]
	return w, ok
}

// Classified returns the weight of reads that were assigned to a taxon of
// the tree.
func (c *Counts) Classified() int64 {
	w, _ := c.Unclassified()
	return c.Weight - w
}

// Aggregator accumulates weights of classification records.
// It is not safe for concurrent use; parallel workers keep their own
// aggregators and merge them.
type Aggregator struct {
	direct  map[string]int64
	records int64
	weight  int64
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{direct: make(map[string]int64)}
}

// Add registers one classification record.
func (a *Aggregator) Add(taxonID string, weight int64) {
	a.direct[taxonID] += weight
	a.records++
	a.weight += weight
}

// AddRecord registers a parsed classification record.
func (a *Aggregator) AddRecord(r Record) {
	a.Add(r.TaxonID, r.Weight)
}

// Merge adds everything collected by another aggregator.
func (a *Aggregator) Merge(b *Aggregator) {
	for k, v := range b.direct {
		a.direct[k] += v
	}
	a.records += b.records
	a.weight += b.weight
}

// Records returns the number of records added so far.
func (a *Aggregator) Records() int64 {
	return a.records
}

// Counts creates direct and cumulative counts over the tree.
//
// Cumulative counts start equal to direct counts. Then, for every taxon
// with direct reads, its direct weight is added once to each of its
// ancestors up to the root. Unclassified reads are not propagated. A taxon
// that is not in the tree makes the whole file invalid.
func (a *Aggregator) Counts(tree *taxonomy.Tree) (*Counts, error) {
	res := &Counts{
		Direct:     maps.Clone(a.direct),
		Cumulative: maps.Clone(a.direct),
		Records:    a.records,
		Weight:     a.weight,
	}

	// sorted, so the same bad file always reports the same taxon
	for _, id := range slices.Sorted(maps.Keys(a.direct)) {
		if id == taxonomy.UnclassifiedID {
			continue
		}
		if _, ok := tree.Lookup(id); !ok {
			return nil, UnknownTaxonError(id)
		}
		w := a.direct[id]
		for anc := range tree.Ancestors(id) {
			res.Cumulative[anc.TaxonID] += w
		}
	}

	return res, nil
}

// Attribute parses classification lines, weights them according to mode
// and returns counts propagated over the tree. Line numbers in errors
// start from 1.
func Attribute(
	tree *taxonomy.Tree,
	lines []string,
	mode Mode,
) (*Counts, error) {
	agg := NewAggregator()
	for i, line := range lines {
		r, err := Parse(line, mode)
		if err != nil {
			return nil, LineError(i+1, line, err)
		}
		agg.AddRecord(r)
	}
	return agg.Counts(tree)
}
