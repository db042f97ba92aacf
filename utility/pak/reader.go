// Copyright (c) 2026 veldt3d
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pak

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/pierrec/lz4"
)

// Nothing in the index should come anywhere near this.
const maxIndexSize = 1 << 30

// Open reads and validates the archive index. The reader must stay
// valid for the lifetime of the returned Archive.
func Open(r io.ReaderAt) (*Archive, error) {
	header := make([]byte, headerSize)
	if _, err := r.ReadAt(header, 0); err != nil {
		return nil, ErrFormat
	}
	if string(header[:len(magic)]) != magic {
		return nil, ErrFormat
	}

	indexLen := int64(binary.LittleEndian.Uint64(header[len(magic):]))
	if indexLen <= 0 || indexLen > maxIndexSize {
		return nil, ErrFormat
	}

	raw := make([]byte, indexLen)
	if _, err := r.ReadAt(raw, int64(headerSize)); err != nil {
		return nil, ErrFormat
	}

	var index Index
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, ErrFormat
	}

	return &Archive{
		r:         r,
		index:     index,
		dataStart: int64(headerSize) + indexLen,
	}, nil
}

// Archive is an opened pak file. Entries can be read concurrently.
type Archive struct {
	r         io.ReaderAt
	index     Index
	dataStart int64
}

// Index returns the archive's table of contents.
func (a *Archive) Index() Index {
	return a.index
}

// Open returns a reader that decompresses the named entry on the fly.
func (a *Archive) Open(name string) (io.Reader, error) {
	for _, entry := range a.index.Entries {
		if entry.Name == name {
			section := io.NewSectionReader(a.r, a.dataStart+entry.Offset, entry.CompressedSize)
			return lz4.NewReader(section), nil
		}
	}
	return nil, ErrNotFound
}

// ReadFile decompresses the named entry in full.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	for _, entry := range a.index.Entries {
		if entry.Name == name {
			section := io.NewSectionReader(a.r, a.dataStart+entry.Offset, entry.CompressedSize)
			data := make([]byte, entry.Size)
			if _, err := io.ReadFull(lz4.NewReader(section), data); err != nil {
				return nil, err
			}
			return data, nil
		}
	}
	return nil, ErrNotFound
}
