// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package coverage

import (
	"bufio"
	"compress/gzip"
	"context"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"

	"testreduce"
	"testreduce/distance"
)

// Kind is the kind of coverage records.
type Kind int

const (
	// WhiteBox records are whitespace-separated covered entity ids.
	WhiteBox Kind = iota
	// BlackBox records are raw test content, split into shingles.
	BlackBox
)

// LoadOptions are options for Load and Read.
type LoadOptions struct {
	Kind Kind

	// ShingleSize is the k of k-gram shingles of black-box records.
	// Defaults to distance.DefaultShingleSize.
	ShingleSize int

	// FeatureVectors instructs to compute a feature vector for each test,
	// indexed by the sorted universe: shingle counts for black-box records and
	// 0/1 indicators for white-box records.
	FeatureVectors bool
}

// Source is a coverage file of one criterion.
type Source struct {
	Criterion string
	Path      string
	Options   LoadOptions
}

// Load reads a coverage file. Files ending with ".gz" are decompressed.
func Load(ctx context.Context, criterion, path string, opt LoadOptions) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Annotate(err, "failed to decompress %q", path).Err()
		}
		defer gz.Close()
		r = gz
	}

	s, err := Read(ctx, criterion, r, opt)
	if err != nil {
		return nil, errors.Annotate(err, "failed to read %q", path).Err()
	}
	return s, nil
}

// LoadAll loads coverage files concurrently.
// The returned stores are in the order of sources.
func LoadAll(ctx context.Context, sources []Source) ([]*Store, error) {
	ret := make([]*Store, len(sources))
	eg, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		eg.Go(func() (err error) {
			ret[i], err = Load(ctx, src.Criterion, src.Path, src.Options)
			return errors.Annotate(err, "failed to load %q coverage", src.Criterion).Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Read reads coverage records, one per line.
// The test on line i has id i, starting from 1.
func Read(ctx context.Context, criterion string, r io.Reader, opt LoadOptions) (*Store, error) {
	var tests []*TestCase
	var counts []map[string]int

	scan := bufio.NewScanner(r)
	scan.Buffer(nil, 1e8) // 100 MB.
	for scan.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scan.Text()
		t := &TestCase{ID: testreduce.TestID(len(tests) + 1)}
		switch opt.Kind {
		case WhiteBox:
			t.Coverage = stringset.NewFromSlice(strings.Fields(line)...)
		case BlackBox:
			c := distance.ShingleCounts(line, opt.ShingleSize)
			t.Coverage = stringset.New(len(c))
			for s := range c {
				t.Coverage.Add(s)
			}
			counts = append(counts, c)
		default:
			return nil, errors.Reason("unknown coverage kind %d", opt.Kind).Tag(testreduce.ConfigError).Err()
		}
		tests = append(tests, t)
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}

	s, err := NewStore(criterion, tests)
	if err != nil {
		return nil, err
	}
	if opt.FeatureVectors {
		s.setFeatures(counts)
	}

	logging.Debugf(ctx, "loaded %s tests covering %s %s entities",
		humanize.Comma(int64(s.Len())), humanize.Comma(int64(s.universe.Len())), criterion)
	return s, nil
}

// setFeatures computes feature vectors over the sorted universe.
// counts[i] are optional entity counts of the test with id i+1;
// without counts, features are 0/1 indicators.
func (s *Store) setFeatures(counts []map[string]int) {
	entities := s.universe.ToSortedSlice()
	for _, t := range s.tests {
		t.Features = make([]float64, len(entities))
		for j, e := range entities {
			switch {
			case !t.Coverage.Has(e):
			case counts != nil:
				t.Features[j] = float64(counts[t.ID-1][e])
			default:
				t.Features[j] = 1
			}
		}
	}
}
