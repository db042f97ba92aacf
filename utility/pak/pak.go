// Copyright (c) 2026 veldt3d
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package pak implements a small lz4 backed archive for shipping
// compiled shader binaries and similar assets in one file. The index
// sits uncompressed at the front, so entries can be located before any
// data is read; every entry is compressed individually and can be
// decompressed on the fly through a section reader. Reads are safe to
// perform concurrently.
package pak

import (
	"encoding/binary"
	"errors"
)

// package errors
var (
	ErrFormat   = errors.New("corrupted or not a pak archive")
	ErrNotFound = errors.New("no entry with that name in the archive")
)

const (
	magic = "VPK1"

	// 8 little-endian bytes of index length follow the magic.
	headerSize = len(magic) + 8
)

// Entry is the index record for one archived file. Offset is relative
// to the end of the index.
type Entry struct {
	Name           string `json:"name"`
	Offset         int64  `json:"offset"`
	Size           int64  `json:"size"`
	CompressedSize int64  `json:"compressed_size"`
}

// Index is the archive's table of contents.
type Index struct {
	Creator string  `json:"creator"`
	Created int64   `json:"created"`
	Entries []Entry `json:"entries"`
}

func putHeader(indexLen int) []byte {
	header := make([]byte, headerSize)
	copy(header, magic)
	binary.LittleEndian.PutUint64(header[len(magic):], uint64(indexLen))
	return header
}
