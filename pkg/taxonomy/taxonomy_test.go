package taxonomy_test

import (
	"slices"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnkreport/pkg/errcode"
	"github.com/gnames/gnkreport/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// root(1) -> Bacteria(2) -> Proteobacteria(3) -> E. coli(5)
//
//	\-> Firmicutes(4)
func sampleRecords() []taxonomy.Record {
	return []taxonomy.Record{
		{TaxonID: "1", ParentID: "1", Rank: "R", Depth: 0, Name: "root"},
		{TaxonID: "2", ParentID: "1", Rank: "D", Depth: 1, Name: "Bacteria"},
		{TaxonID: "3", ParentID: "2", Rank: "P", Depth: 2, Name: "Proteobacteria"},
		{TaxonID: "4", ParentID: "2", Rank: "P", Depth: 2, Name: "Firmicutes"},
		{TaxonID: "5", ParentID: "3", Rank: "S", Depth: 3, Name: "Escherichia coli"},
	}
}

func ids(nodes []taxonomy.Node) []string {
	res := make([]string, len(nodes))
	for i := range nodes {
		res[i] = nodes[i].TaxonID
	}
	return res
}

func errCode(t *testing.T, err error) gn.ErrorCode {
	t.Helper()
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	return gnErr.Code
}

func TestBuild(t *testing.T) {
	tree, err := taxonomy.Build(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, 5, tree.Len())
	assert.Equal(t, 3, tree.MaxDepth())

	root := tree.Root()
	assert.Equal(t, "1", root.TaxonID)
	assert.Equal(t, "root", root.Name)
	assert.Empty(t, root.ParentID, "root parent is ignored")

	n, ok := tree.Lookup("5")
	require.True(t, ok)
	assert.Equal(t, "Escherichia coli", n.Name)
	assert.Equal(t, "S", n.Rank)
	assert.Equal(t, 3, n.Depth)

	_, ok = tree.Lookup("42")
	assert.False(t, ok)
	_, ok = tree.Lookup("0")
	assert.False(t, ok, "unclassified is not a taxon")
}

func TestChildrenOrder(t *testing.T) {
	tree, err := taxonomy.Build(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, ids(tree.Children("1")))
	assert.Equal(t, []string{"3", "4"}, ids(tree.Children("2")))
	assert.Empty(t, tree.Children("5"))
	assert.Nil(t, tree.Children("nope"))
}

func TestParentAndAncestors(t *testing.T) {
	tree, err := taxonomy.Build(sampleRecords())
	require.NoError(t, err)

	p, ok := tree.Parent("5")
	require.True(t, ok)
	assert.Equal(t, "3", p.TaxonID)

	_, ok = tree.Parent("1")
	assert.False(t, ok)

	anc := slices.Collect(tree.Ancestors("5"))
	assert.Equal(t, []string{"3", "2", "1"}, ids(anc))

	assert.Empty(t, slices.Collect(tree.Ancestors("1")))
	assert.Empty(t, slices.Collect(tree.Ancestors("unknown")))

	// early stop
	var first []taxonomy.Node
	for n := range tree.Ancestors("5") {
		first = append(first, n)
		break
	}
	assert.Equal(t, []string{"3"}, ids(first))
}

func TestBuildChildBeforeParent(t *testing.T) {
	recs := []taxonomy.Record{
		{TaxonID: "5", ParentID: "3", Rank: "S", Depth: 2, Name: "Species"},
		{TaxonID: "3", ParentID: "1", Rank: "G", Depth: 1, Name: "Genus"},
		{TaxonID: "6", ParentID: "3", Rank: "S", Depth: 2, Name: "Other"},
		{TaxonID: "1", ParentID: "1", Rank: "R", Depth: 0, Name: "root"},
	}
	tree, err := taxonomy.Build(recs)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "6"}, ids(tree.Children("3")))
	assert.Equal(t, []string{"3"}, ids(tree.Children("1")))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		msg  string
		recs []taxonomy.Record
		code gn.ErrorCode
	}{
		{
			msg: "missing parent",
			recs: []taxonomy.Record{
				{TaxonID: "1", Name: "root"},
				{TaxonID: "2", ParentID: "7", Name: "orphan"},
			},
			code: errcode.TaxonomyMissingParentError,
		},
		{
			msg: "no root",
			recs: []taxonomy.Record{
				{TaxonID: "2", ParentID: "3", Name: "a"},
				{TaxonID: "3", ParentID: "2", Name: "b"},
			},
			code: errcode.TaxonomyNoRootError,
		},
		{
			msg:  "empty table",
			recs: nil,
			code: errcode.TaxonomyNoRootError,
		},
		{
			msg: "duplicate",
			recs: []taxonomy.Record{
				{TaxonID: "1", Name: "root"},
				{TaxonID: "2", ParentID: "1", Name: "a"},
				{TaxonID: "2", ParentID: "1", Name: "b"},
			},
			code: errcode.TaxonomyDuplicateError,
		},
		{
			msg: "empty id",
			recs: []taxonomy.Record{
				{TaxonID: "1", Name: "root"},
				{TaxonID: "", ParentID: "1", Name: "nameless"},
			},
			code: errcode.TaxonomyEmptyIDError,
		},
		{
			msg: "cycle",
			recs: []taxonomy.Record{
				{TaxonID: "1", Name: "root"},
				{TaxonID: "2", ParentID: "3", Name: "a"},
				{TaxonID: "3", ParentID: "2", Name: "b"},
			},
			code: errcode.TaxonomyDisconnectedError,
		},
		{
			msg: "self parent",
			recs: []taxonomy.Record{
				{TaxonID: "1", Name: "root"},
				{TaxonID: "2", ParentID: "2", Name: "a"},
			},
			code: errcode.TaxonomyDisconnectedError,
		},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			tree, err := taxonomy.Build(v.recs)
			require.Error(t, err)
			assert.Nil(t, tree)
			assert.Equal(t, v.code, errCode(t, err))
		})
	}
}

func TestMissingParentErrorVars(t *testing.T) {
	err := taxonomy.MissingParentError("10", "99")
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, []any{"10", "99"}, gnErr.Vars)
	assert.Contains(t, gnErr.Err.Error(), "99")
}
