//go:build linux

package scanner

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/unix"
)

// Channel is a long-lived, seekable byte handle over a target process's
// virtual memory, opened over /proc/<pid>/mem.
//
// Reads and writes are non-atomic with respect to the target: the
// channel never pauses the process it is reading from or writing to.
type Channel struct {
	pid int
	mem *os.File
	log *logger.Logger
}

// OpenChannel opens /proc/<pid>/mem read-write for positioned I/O.
func OpenChannel(pid int, log *logger.Logger) (*Channel, error) {
	path := fmt.Sprintf("/proc/%d/mem", pid)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSuchProcess
		}
		if os.IsPermission(err) {
			return nil, ErrPermission
		}
		return nil, fmt.Errorf("scanner: open %s: %w", path, err)
	}
	return &Channel{pid: pid, mem: f, log: log}, nil
}

// Close releases the underlying /proc/<pid>/mem handle.
func (c *Channel) Close() error {
	if c.mem == nil {
		return nil
	}
	return c.mem.Close()
}

// ReadExact fills a buffer of exactly len(buf) bytes starting at addr.
// It tries the process_vm_readv syscall first as a fast path for bulk
// region reads; on ENOSYS/EPERM/EINVAL, or when that syscall reads fewer
// bytes than requested, it falls back to a positioned ReadAt against
// /proc/<pid>/mem. Any other syscall error, or a short or failed ReadAt,
// yields ErrReadFailed; the caller treats this as non-fatal.
func (c *Channel) ReadExact(addr Address, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	n, err := processVMReadv(c.pid, addr, buf)
	if err == nil && n == len(buf) {
		return nil
	}
	if err != nil && !isUnsupportedVMIO(err) {
		// A real per-call failure (e.g. unmapped range) - don't mask it
		// behind a retried pread that will fail identically.
		return fmt.Errorf("%w: process_vm_readv: %v", ErrReadFailed, err)
	}

	n, rerr := c.mem.ReadAt(buf, int64(addr))
	if rerr != nil && n != len(buf) {
		return fmt.Errorf("%w: %v", ErrReadFailed, rerr)
	}
	if n != len(buf) {
		return fmt.Errorf("%w: short read %d of %d bytes", ErrReadFailed, n, len(buf))
	}
	return nil
}

// WriteExact writes all of data starting at addr, unconditionally and
// immediately - there is no transaction, undo, or checksum.
func (c *Channel) WriteExact(addr Address, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	n, err := processVMWritev(c.pid, addr, data)
	if err == nil && n == len(data) {
		return nil
	}
	if err != nil && !isUnsupportedVMIO(err) {
		return fmt.Errorf("%w: process_vm_writev: %v", ErrWriteFailed, err)
	}

	n, werr := c.mem.WriteAt(data, int64(addr))
	if werr != nil && n != len(data) {
		return fmt.Errorf("%w: %v", ErrWriteFailed, werr)
	}
	if n != len(data) {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrWriteFailed, n, len(data))
	}
	return nil
}

// FillRegion reads a Region's entire byte span in one call.
func (c *Channel) FillRegion(r Region) ([]byte, error) {
	buf := make([]byte, r.Size())
	if err := c.ReadExact(r.Start, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func isUnsupportedVMIO(err error) bool {
	return err == unix.ENOSYS || err == unix.EPERM || err == unix.EINVAL
}

// processVMReadv reads len(buf) bytes from pid's address space at addr
// using the process_vm_readv syscall, a fast path available on modern
// Linux kernels without seeking a file descriptor per call.
func processVMReadv(pid int, addr Address, buf []byte) (int, error) {
	localIov := unix.Iovec{Base: &buf[0]}
	localIov.SetLen(len(buf))

	remoteIov := unix.RemoteIovec{Base: uintptr(addr), Len: len(buf)}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_READV,
		uintptr(pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0),
	)
	if errno != 0 {
		return int(n), errno
	}
	return int(n), nil
}

// processVMWritev writes data into pid's address space at addr using the
// process_vm_writev syscall.
func processVMWritev(pid int, addr Address, data []byte) (int, error) {
	localIov := unix.Iovec{Base: &data[0]}
	localIov.SetLen(len(data))

	remoteIov := unix.RemoteIovec{Base: uintptr(addr), Len: len(data)}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_WRITEV,
		uintptr(pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0),
	)
	if errno != 0 {
		return int(n), errno
	}
	return int(n), nil
}
