// Copyright (c) 2026 veldt3d
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pak

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/pierrec/lz4"
)

// NewBuilder starts an empty archive attributed to creator.
func NewBuilder(creator string) *Builder {
	return &Builder{creator: creator}
}

// Builder assembles an archive in memory. Entries are compressed as
// they are added; WriteTo lays the result out in one pass.
type Builder struct {
	creator string
	entries []pending
}

type pending struct {
	name string
	blob []byte
	size int64
}

// Add compresses the contents of r and queues it under name. Adding
// two entries with the same name keeps both; Open resolves to the
// first.
func (b *Builder) Add(name string, r io.Reader) error {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	size, err := io.Copy(w, r)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	b.entries = append(b.entries, pending{name: name, blob: buf.Bytes(), size: size})
	return nil
}

// Len returns the number of queued entries.
func (b *Builder) Len() int {
	return len(b.entries)
}

// WriteTo writes the complete archive. Implements io.WriterTo.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	index := Index{
		Creator: b.creator,
		Created: time.Now().Unix(),
	}

	var offset int64
	for _, entry := range b.entries {
		index.Entries = append(index.Entries, Entry{
			Name:           entry.name,
			Offset:         offset,
			Size:           entry.size,
			CompressedSize: int64(len(entry.blob)),
		})
		offset += int64(len(entry.blob))
	}

	encoded, err := json.Marshal(index)
	if err != nil {
		return 0, err
	}

	var written int64
	n, err := w.Write(putHeader(len(encoded)))
	written += int64(n)
	if err != nil {
		return written, err
	}

	n, err = w.Write(encoded)
	written += int64(n)
	if err != nil {
		return written, err
	}

	for _, entry := range b.entries {
		n, err := w.Write(entry.blob)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
