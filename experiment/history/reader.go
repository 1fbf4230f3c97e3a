// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package history

import (
	"encoding/json"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"go.chromium.org/luci/common/data/recordio"
	"go.chromium.org/luci/common/errors"
)

// maxFrameSize is the maximum size of one encoded record.
const maxFrameSize = 1e8 // 100 MB.

// Reader deserializes run records written by Writer.
type Reader struct {
	src  io.Reader
	rio  recordio.Reader
	zstd *zstd.Decoder
}

// NewReader creates a Reader.
func NewReader(r io.Reader) (*Reader, error) {
	ret := &Reader{src: r}

	var err error
	if ret.zstd, err = zstd.NewReader(r); err != nil {
		return nil, err
	}

	ret.rio = recordio.NewReader(ret.zstd, maxFrameSize)
	return ret, nil
}

// OpenFile returns Reader that reads a file.
// When done, call Close() on the returned Reader.
func OpenFile(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Read reads the next record.
// Returns io.EOF when there are no more records.
func (r *Reader) Read() (*Record, error) {
	frame, err := r.rio.ReadFrameAll()
	if err != nil {
		return nil, err
	}

	rec := &Record{}
	if err := json.Unmarshal(frame, rec); err != nil {
		return nil, errors.Annotate(err, "failed to decode a record").Err()
	}
	return rec, nil
}

// ReadAll reads all remaining records.
func (r *Reader) ReadAll() ([]*Record, error) {
	var ret []*Record
	for {
		switch rec, err := r.Read(); {
		case err == io.EOF:
			return ret, nil
		case err != nil:
			return nil, err
		default:
			ret = append(ret, rec)
		}
	}
}

// Close releases resources and closes the underlying io.Reader.
func (r *Reader) Close() error {
	r.zstd.Close()
	if closer, ok := r.src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
