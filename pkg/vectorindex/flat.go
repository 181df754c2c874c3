package vectorindex

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"hr-helpdesk-be/pkg/store"
)

const (
	VectorsFile  = "vectors.bin"
	MetadataFile = "metadata.json"

	matrixHeaderSize = 8
)

// FlatIndex is an exact brute-force index kept in memory and persisted as
// two files: a binary vector matrix and a JSON metadata list.
type FlatIndex struct {
	dir string

	mu      sync.RWMutex
	dim     int
	vectors [][]float32
	chunks  []store.Chunk
}

func NewFlatIndex(dir string) *FlatIndex {
	return &FlatIndex{dir: dir}
}

func (f *FlatIndex) Build(_ context.Context, vectors [][]float32, chunks []store.Chunk) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: %d vectors for %d chunks", ErrIndexCorrupt, len(vectors), len(chunks))
	}
	if len(vectors) == 0 {
		return ErrIndexEmpty
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim || dim == 0 {
			return fmt.Errorf("%w: row %d has %d, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.dim = dim
	f.vectors = vectors
	f.chunks = chunks
	return nil
}

func (f *FlatIndex) Search(_ context.Context, query []float32, k int) ([]store.Hit, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.vectors) == 0 || k <= 0 {
		return []store.Hit{}, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), f.dim)
	}

	hits := make([]store.Hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = store.Hit{Score: dot(v, query), Chunk: f.chunks[i]}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Save writes both artifacts, each through a temp file and rename.
func (f *FlatIndex) Save(_ context.Context) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	if err := writeAtomic(filepath.Join(f.dir, VectorsFile), func(w io.Writer) error {
		return writeMatrix(w, f.vectors, f.dim)
	}); err != nil {
		return fmt.Errorf("save vectors: %w", err)
	}

	if err := writeAtomic(filepath.Join(f.dir, MetadataFile), func(w io.Writer) error {
		return json.NewEncoder(w).Encode(f.chunks)
	}); err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}
	return nil
}

// Load restores vectors and metadata together or not at all.
func (f *FlatIndex) Load(_ context.Context) error {
	vectors, dim, err := readMatrix(filepath.Join(f.dir, VectorsFile))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexCorrupt, err)
	}

	raw, err := os.ReadFile(filepath.Join(f.dir, MetadataFile))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexCorrupt, err)
	}
	var chunks []store.Chunk
	if err := json.Unmarshal(raw, &chunks); err != nil {
		return fmt.Errorf("%w: metadata: %v", ErrIndexCorrupt, err)
	}

	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: %d vectors but %d metadata rows", ErrIndexCorrupt, len(vectors), len(chunks))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.dim = dim
	f.vectors = vectors
	f.chunks = chunks
	return nil
}

func (f *FlatIndex) Exists(_ context.Context) bool {
	for _, name := range []string{VectorsFile, MetadataFile} {
		if _, err := os.Stat(filepath.Join(f.dir, name)); err == nil {
			return true
		}
	}
	return false
}

func (f *FlatIndex) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.vectors)
}

func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Matrix layout: uint32 rows, uint32 dim, then rows*dim little-endian float32.
func writeMatrix(w io.Writer, vectors [][]float32, dim int) error {
	header := [2]uint32{uint32(len(vectors)), uint32(dim)}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	for _, v := range vectors {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readMatrix(path string) ([][]float32, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	r := bufio.NewReader(file)
	var header [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, 0, fmt.Errorf("vector header: %w", err)
	}
	rows, dim := int64(header[0]), int64(header[1])
	if rows > 0 && dim == 0 {
		return nil, 0, errors.New("vector header: zero dimension")
	}

	info, err := file.Stat()
	if err != nil {
		return nil, 0, err
	}
	if !matrixFits(info.Size()-matrixHeaderSize, rows, dim) {
		return nil, 0, fmt.Errorf("vector header: %d x %d does not match file size %d", rows, dim, info.Size())
	}

	vectors := make([][]float32, rows)
	for i := range vectors {
		v := make([]float32, int(dim))
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, 0, fmt.Errorf("vector row %d: %w", i, err)
		}
		vectors[i] = v
	}
	if _, err := r.ReadByte(); err != io.EOF {
		return nil, 0, errors.New("trailing bytes after vector matrix")
	}
	return vectors, int(dim), nil
}

// matrixFits reports whether payload bytes hold exactly rows*dim float32s,
// without multiplying header values that may be garbage.
func matrixFits(payload, rows, dim int64) bool {
	if rows == 0 {
		return payload == 0
	}
	rowBytes := dim * 4
	return payload%rowBytes == 0 && payload/rowBytes == rows
}
