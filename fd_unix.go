//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd || solaris || illumos

package reactor

import "golang.org/x/sys/unix"

// readFD and writeFD are thin, unexported wrappers over the raw syscalls,
// used by the package's tests to read and write a bare descriptor (as
// opposed to an *os.File) registered with a Loop.

func readFD(fd int, buf []byte) (int, error) {
	return unix.Read(fd, buf)
}

func writeFD(fd int, buf []byte) (int, error) {
	return unix.Write(fd, buf)
}
