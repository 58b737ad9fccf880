// Package iotaxonomy reads taxonomy tables and builds taxonomy trees.
//
// A table has one taxon per line with five fields separated by '\t|\t':
// taxon ID, parent taxon ID, rank code, depth and name.
package iotaxonomy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnkreport/internal/iofs"
	"github.com/gnames/gnkreport/pkg/taxonomy"
	"github.com/gnames/gnlib"
)

// Delimiter separates fields of a taxonomy line.
const Delimiter = "\t|\t"

const fieldsNum = 5

// maxLineSize limits the length of one taxonomy line.
const maxLineSize = 1 << 20

var (
	errFields = errors.New("wrong number of fields")
	errDepth  = errors.New("depth must be a non-negative integer")
)

// Load reads a taxonomy file and builds the tree.
func Load(path string) (*taxonomy.Tree, error) {
	start := time.Now()
	slog.Info("Reading taxonomy", "path", path)

	f, err := iofs.Open(path, nil)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, err := Read(f)
	if err != nil {
		return nil, withPath(path, err)
	}

	tree, err := taxonomy.Build(recs)
	if err != nil {
		return nil, err
	}

	slog.Info("Taxonomy is ready",
		"path", path,
		"taxa", tree.Len(),
		"max_depth", tree.MaxDepth(),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return tree, nil
}

// Read parses taxonomy records. Empty lines are ignored.
func Read(r io.Reader) ([]taxonomy.Record, error) {
	var res []taxonomy.Record

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lineNum int
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rec, err := ParseLine(line)
		if err != nil {
			return nil, LineError(lineNum, line, err)
		}
		res = append(res, rec)

		if lineNum%1_000_000 == 0 {
			slog.Debug("Taxonomy lines read",
				"lines", humanize.Comma(int64(lineNum)))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, LineError(lineNum+1, "", err)
	}

	return res, nil
}

// ParseLine converts one line of a taxonomy table to a record.
func ParseLine(line string) (taxonomy.Record, error) {
	var res taxonomy.Record
	fields := strings.Split(line, Delimiter)
	if len(fields) != fieldsNum {
		return res, fmt.Errorf("%w: want %d, got %d",
			errFields, fieldsNum, len(fields))
	}

	depth, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil || depth < 0 {
		return res, fmt.Errorf("%w: %q", errDepth, fields[3])
	}

	res = taxonomy.Record{
		TaxonID:  fields[0],
		ParentID: fields[1],
		Rank:     fields[2],
		Depth:    depth,
		Name:     gnlib.FixUtf8(fields[4]),
	}
	return res, nil
}
