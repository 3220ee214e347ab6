package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Binary layout: magic, version, dimension, count, then count rows of
// dimension little-endian float32 values.
const (
	indexMagic   = uint32(0x4b424958) // "KBIX"
	indexVersion = uint32(1)
)

// WriteTo serializes the index.
func (idx *FlatL2) WriteTo(w io.Writer) (int64, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	bw := bufio.NewWriter(w)
	var written int64

	header := []uint32{indexMagic, indexVersion, uint32(idx.dimension), uint32(len(idx.vectors))}
	for _, v := range header {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return written, err
		}
		written += 4
	}

	buf := make([]byte, 4)
	for _, vec := range idx.vectors {
		for _, f := range vec {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
			if _, err := bw.Write(buf); err != nil {
				return written, err
			}
			written += 4
		}
	}

	return written, bw.Flush()
}

// ReadFlatL2 deserializes an index previously written with WriteTo.
func ReadFlatL2(r io.Reader) (*FlatL2, error) {
	br := bufio.NewReader(r)

	var magic, version, dimension, count uint32
	for _, dst := range []*uint32{&magic, &version, &dimension, &count} {
		if err := binary.Read(br, binary.LittleEndian, dst); err != nil {
			return nil, fmt.Errorf("failed to read index header: %w", err)
		}
	}

	if magic != indexMagic {
		return nil, fmt.Errorf("not an index file: bad magic 0x%08x", magic)
	}
	if version != indexVersion {
		return nil, fmt.Errorf("unsupported index version: %d", version)
	}

	idx, err := NewFlatL2(int(dimension))
	if err != nil {
		return nil, err
	}

	idx.vectors = make([][]float32, 0, count)
	row := make([]byte, 4*dimension)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, fmt.Errorf("truncated index payload at row %d: %w", i, err)
		}
		vec := make([]float32, dimension)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(row[4*j:]))
		}
		idx.vectors = append(idx.vectors, vec)
	}

	return idx, nil
}
