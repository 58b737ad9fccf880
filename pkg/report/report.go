// Package report creates kreport rows from a taxonomy tree and read counts.
package report

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gnames/gnkreport/pkg/counts"
	"github.com/gnames/gnkreport/pkg/taxonomy"
)

const (
	// UnclassifiedRank is the rank code of the unclassified row.
	UnclassifiedRank = "U"
	// UnclassifiedName is the name of the unclassified row.
	UnclassifiedName = "unclassified"
)

// Row is one line of a kreport.
type Row struct {
	// Percent is the share of cumulative reads among all records of the
	// input, unclassified records included.
	Percent float64
	// Cumulative is the number of reads of the taxon and its descendants.
	Cumulative int64
	// Direct is the number of reads assigned exactly to the taxon.
	Direct int64
	Rank    string
	TaxonID string
	// Depth determines indentation of the name.
	Depth int
	Name  string
}

// String formats the row as a tab-separated kreport line without the
// trailing newline.
func (r Row) String() string {
	return fmt.Sprintf("%6.2f\t%d\t%d\t%s\t%s\t%s%s",
		r.Percent, r.Cumulative, r.Direct, r.Rank, r.TaxonID,
		strings.Repeat(" ", r.Depth*2), r.Name)
}

// Traverse walks the tree depth-first and returns report rows.
//
// The unclassified row goes first if there were unclassified reads. The
// root row is always present. Every other taxon appears only if it has
// reads, and siblings go from the most abundant to the least abundant.
// Siblings with the same count come in reverse order of the taxonomy table.
func Traverse(tree *taxonomy.Tree, c *counts.Counts) []Row {
	var res []Row

	if n, ok := c.Unclassified(); ok {
		res = append(res, Row{
			Percent:    percent(n, c.Records),
			Cumulative: n,
			Direct:     n,
			Rank:       UnclassifiedRank,
			TaxonID:    taxonomy.UnclassifiedID,
			Name:       UnclassifiedName,
		})
	}

	stack := []taxonomy.Node{tree.Root()}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cum := c.Cumulative[n.TaxonID]
		res = append(res, Row{
			Percent:    percent(cum, c.Records),
			Cumulative: cum,
			Direct:     c.Direct[n.TaxonID],
			Rank:       n.Rank,
			TaxonID:    n.TaxonID,
			Depth:      n.Depth,
			Name:       n.Name,
		})

		// ascending push, so the largest child is on top of the stack
		stack = append(stack, withReads(tree.Children(n.TaxonID), c.Cumulative)...)
	}

	return res
}

// withReads drops taxa without cumulative reads and sorts the rest by
// cumulative count. The sort is stable, taxa with equal counts keep
// their taxonomy order.
func withReads(nodes []taxonomy.Node, cumulative map[string]int64) []taxonomy.Node {
	res := slices.DeleteFunc(nodes, func(n taxonomy.Node) bool {
		return cumulative[n.TaxonID] == 0
	})
	slices.SortStableFunc(res, func(a, b taxonomy.Node) int {
		return cmp.Compare(cumulative[a.TaxonID], cumulative[b.TaxonID])
	})
	return res
}

func percent(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Write writes rows to w, one per line.
func Write(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		if _, err := bw.WriteString(r.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
