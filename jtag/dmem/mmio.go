// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package dmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mapper is the host's physical memory window provider. The real one
// sits on /dev/mem; tests substitute a byte-slice-backed fake.
type Mapper interface {
	Open(path string) error

	// Map maps size bytes at the page-aligned physical offset into the
	// process.
	Map(offset, size uint64) ([]byte, error)

	Unmap(window []byte) error
	Close() error

	PageSize() uint64
}

// devMapper maps physical memory through a character device such as
// /dev/mem.
type devMapper struct {
	fd int
}

func newDevMapper() *devMapper {
	return &devMapper{fd: -1}
}

func (m *devMapper) Open(path string) error {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_SYNC, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	m.fd = fd
	return nil
}

func (m *devMapper) Map(offset, size uint64) ([]byte, error) {
	return unix.Mmap(m.fd, int64(offset), int(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func (m *devMapper) Unmap(window []byte) error {
	return unix.Munmap(window)
}

func (m *devMapper) Close() error {
	if m.fd == -1 {
		return nil
	}
	err := unix.Close(m.fd)
	m.fd = -1
	return err
}

func (m *devMapper) PageSize() uint64 {
	return uint64(unix.Getpagesize())
}

// load32 and store32 issue single 32-bit accesses into a mapped MMIO
// window. Debug bus registers must be touched with full-word cycles,
// so these go through one pointer dereference rather than byte-wise
// slice access.
func load32(window []byte, off uint64) uint32 {
	return *(*uint32)(unsafe.Pointer(&window[off]))
}

func store32(window []byte, off uint64, val uint32) {
	*(*uint32)(unsafe.Pointer(&window[off])) = val
}
