package osmpbf

import (
	"bytes"
	"os"

	"github.com/edsrzf/mmap-go"
)

// MmapOSMFile is an OSMFileIn backed by a memory-mapped file rather than
// buffered reads. Useful for large extracts processed by ParseWorkerPool,
// where every worker's GetNextBlocks call would otherwise contend on the
// OS page cache through separate read syscalls; mmap lets the kernel
// share pages across workers directly.
type MmapOSMFile struct {
	*OSMFileIn
	f *os.File
	m mmap.MMap
}

// OpenMmapOSMFile memory-maps path read-only and wraps it as an
// OSMFileIn, reading the header blob immediately like OpenOSMFile does.
func OpenMmapOSMFile(path string) (*MmapOSMFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	in, err := NewOSMFileIn(bytes.NewReader(m))
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, err
	}

	return &MmapOSMFile{OSMFileIn: in, f: f, m: m}, nil
}

// Close unmaps the file and closes its descriptor.
func (mf *MmapOSMFile) Close() error {
	if err := mf.m.Unmap(); err != nil {
		mf.f.Close()
		return err
	}
	return mf.f.Close()
}
