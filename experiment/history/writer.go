// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package history

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"

	"go.chromium.org/luci/common/data/recordio"
)

// Writer serializes run records to an io.Writer.
// It is safe for concurrent use.
type Writer struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	enc  *json.Encoder // writes to buf
	dst  io.Writer
	rio  recordio.Writer
	zstd *zstd.Encoder
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	ret := &Writer{dst: w}

	var err error
	if ret.zstd, err = zstd.NewWriter(w); err != nil {
		panic(err) // we don't pass any options
	}

	ret.rio = recordio.NewWriter(ret.zstd)
	ret.enc = json.NewEncoder(&ret.buf)
	return ret
}

// CreateFile returns Writer that persists data to a new file.
// When done, call Close() on the returned Writer.
func CreateFile(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewWriter(f), nil
}

// Write writes a run record.
func (w *Writer) Write(rec *Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Marshal the record reusing the buffer.
	w.buf.Reset()
	if err := w.enc.Encode(rec); err != nil {
		return err
	}

	if _, err := w.rio.Write(w.buf.Bytes()); err != nil {
		return err
	}
	return w.rio.Flush()
}

// Close flushes everything and closes the underlying io.Writer.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.zstd.Close(); err != nil {
		return err
	}

	if closer, ok := w.dst.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
