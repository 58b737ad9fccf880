package iotaxonomy_test

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnkreport/internal/iotaxonomy"
	"github.com/gnames/gnkreport/pkg/errcode"
	"github.com/gnames/gnkreport/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const table = "1\t|\t1\t|\tR\t|\t0\t|\troot\n" +
	"131567\t|\t1\t|\tR1\t|\t1\t|\tcellular organisms\n" +
	"\n" +
	"2\t|\t131567\t|\tD\t|\t2\t|\tBacteria\n" +
	"562\t|\t2\t|\tS\t|\t3\t|\tEscherichia coli\r\n"

func TestParseLine(t *testing.T) {
	tests := []struct {
		msg  string
		line string
		rec  taxonomy.Record
		err  bool
	}{
		{
			"good",
			"562\t|\t561\t|\tS\t|\t7\t|\tEscherichia coli",
			taxonomy.Record{
				TaxonID: "562", ParentID: "561", Rank: "S", Depth: 7,
				Name: "Escherichia coli",
			},
			false,
		},
		{
			"name with spaces",
			"9\t|\t1\t|\tS1\t|\t2\t|\tBuchnera aphidicola str. APS",
			taxonomy.Record{
				TaxonID: "9", ParentID: "1", Rank: "S1", Depth: 2,
				Name: "Buchnera aphidicola str. APS",
			},
			false,
		},
		{"too few fields", "562\t|\t561\t|\tS\t|\t7", taxonomy.Record{}, true},
		{"too many fields", "1\t|\t1\t|\tR\t|\t0\t|\troot\t|\tx", taxonomy.Record{}, true},
		{"plain tabs", "1\t1\tR\t0\troot", taxonomy.Record{}, true},
		{"bad depth", "1\t|\t1\t|\tR\t|\tzero\t|\troot", taxonomy.Record{}, true},
		{"negative depth", "1\t|\t1\t|\tR\t|\t-1\t|\troot", taxonomy.Record{}, true},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			rec, err := iotaxonomy.ParseLine(v.line)
			if v.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, v.rec, rec)
		})
	}
}

func TestRead(t *testing.T) {
	recs, err := iotaxonomy.Read(strings.NewReader(table))
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, "root", recs[0].Name)
	assert.Equal(t, "Escherichia coli", recs[3].Name)
	assert.Equal(t, 3, recs[3].Depth)
}

func TestReadLineError(t *testing.T) {
	bad := table + "9\t|\t1\t|\tS\n"
	_, err := iotaxonomy.Read(strings.NewReader(bad))
	require.Error(t, err)

	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.TaxonomyLineError, gnErr.Code)
	assert.Equal(t, 6, gnErr.Vars[0])
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ktaxonomy.tsv")
	require.NoError(t, os.WriteFile(path, []byte(table), 0644))

	tree, err := iotaxonomy.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, tree.Len())
	assert.Equal(t, 3, tree.MaxDepth())

	n, ok := tree.Lookup("562")
	require.True(t, ok)
	assert.Equal(t, "2", n.ParentID)
}

func TestLoadGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(table))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "ktaxonomy.tsv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	tree, err := iotaxonomy.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, tree.Len())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := iotaxonomy.Load(filepath.Join(dir, "missing.tsv"))
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ReadFileError, gnErr.Code)

	path := filepath.Join(dir, "bad.tsv")
	require.NoError(t, os.WriteFile(path, []byte("1\t|\t1\t|\tR\n"), 0644))
	_, err = iotaxonomy.Load(path)
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.TaxonomyLineError, gnErr.Code)
	assert.Equal(t, path, gnErr.Vars[0])
	assert.Equal(t, 1, gnErr.Vars[1])

	path = filepath.Join(dir, "orphan.tsv")
	orphan := "1\t|\t1\t|\tR\t|\t0\t|\troot\n2\t|\t7\t|\tD\t|\t1\t|\tBacteria\n"
	require.NoError(t, os.WriteFile(path, []byte(orphan), 0644))
	_, err = iotaxonomy.Load(path)
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.TaxonomyMissingParentError, gnErr.Code)
}
