//go:build linux || darwin

package stream

import (
	"errors"
	"io"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// readRetry reads from fd, retrying reads interrupted by a signal.
func readRetry(fd int, p []byte) (n int, err error) {
	for {
		n, err = unix.Read(fd, p)
		if errors.Is(err, unix.EINTR) {
			logger.Tracef("fd %d: read interrupted, retrying", fd)
			continue
		}
		if n < 0 {
			n = 0
		}
		return
	}
}

// writeRetry writes all of p to fd, retrying interrupted writes.
func writeRetry(fd int, p []byte) (n int, err error) {
	for n < len(p) {
		var m int
		m, err = unix.Write(fd, p[n:])
		if errors.Is(err, unix.EINTR) {
			logger.Tracef("fd %d: write interrupted, retrying", fd)
			continue
		}
		if err != nil {
			return
		}
		n += m
	}
	return
}

func openRetry(path string, mode int, perm uint32) (fd int, err error) {
	for {
		fd, err = unix.Open(path, mode|unix.O_CLOEXEC, perm)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return
	}
}

// closeFD closes fd. An interrupted close has still released the
// descriptor, so it is not retried.
func closeFD(fd int) error {
	err := unix.Close(fd)
	if errors.Is(err, unix.EINTR) {
		return nil
	}
	return err
}

func seekFD(fd int, offset int64, whence int) (int64, error) {
	return unix.Seek(fd, offset, whence)
}

// isSeekError reports whether err means the descriptor cannot seek.
func isSeekError(err error) bool {
	return errors.Is(err, unix.ESPIPE) || errors.Is(err, unix.EINVAL)
}

// regularSize returns the size of fd when it is a regular file.
func regularSize(fd int) (size int64, regular bool, err error) {
	var st unix.Stat_t
	err = unix.Fstat(fd, &st)
	if err != nil {
		err = pkgerrors.Wrap(err, "unable to stat descriptor")
		return
	}
	size = st.Size
	regular = st.Mode&unix.S_IFMT == unix.S_IFREG
	return
}

// fdListen probes fd without blocking. A byte consumed by the speculative
// read is returned in pushed and must be queued by the caller.
func fdListen(fd int, mightSeek bool) (result ListenResult, pushed []byte, err error) {
	if mightSeek {
		cur, serr := seekFD(fd, 0, io.SeekCurrent)
		size, regular, _ := regularSize(fd)
		if serr == nil && regular {
			if cur >= size {
				logger.Tracef("fd %d: listen: at end of file", fd)
				return LISTEN_EOF, nil, nil
			}
			return LISTEN_AVAILABLE, nil, nil
		}
	}

	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		_, err = unix.Poll(fds, 0)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		break
	}
	if err == nil && fds[0].Revents == 0 {
		logger.Tracef("fd %d: listen: poll reports nothing", fd)
		return LISTEN_NO_CHAR, nil, nil
	}
	err = nil

	if count, ierr := unix.IoctlGetInt(fd, ioctlInputQueue); ierr == nil && count > 0 {
		return LISTEN_AVAILABLE, nil, nil
	}

	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return LISTEN_UNKNOWN, nil, pkgerrors.Wrap(err, "unable to query descriptor flags")
	}
	if flags&unix.O_NONBLOCK == 0 {
		err = unix.SetNonblock(fd, true)
		if err != nil {
			return LISTEN_UNKNOWN, nil, pkgerrors.Wrap(err, "unable to set non-blocking mode")
		}
		defer unix.SetNonblock(fd, false)
	}

	var one [1]byte
	n, err := readRetry(fd, one[:])
	switch {
	case err == nil && n == 1:
		logger.Tracef("fd %d: listen: speculative read got a byte", fd)
		return LISTEN_AVAILABLE, one[:], nil
	case err == nil:
		return LISTEN_EOF, nil, nil
	case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK):
		return LISTEN_NO_CHAR, nil, nil
	default:
		return LISTEN_UNKNOWN, nil, pkgerrors.Wrap(err, "unable to probe descriptor")
	}
}

// socketListen probes a socket by peeking at its receive queue.
func socketListen(fd int) (result ListenResult, err error) {
	var one [1]byte
	for {
		var n int
		n, _, err = unix.Recvfrom(fd, one[:], unix.MSG_PEEK|unix.MSG_DONTWAIT)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err == nil && n > 0:
			return LISTEN_AVAILABLE, nil
		case err == nil:
			return LISTEN_EOF, nil
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK):
			return LISTEN_NO_CHAR, nil
		case errors.Is(err, unix.ENOTSOCK):
			return LISTEN_UNKNOWN, nil
		default:
			return LISTEN_UNKNOWN, pkgerrors.Wrap(err, "unable to peek socket")
		}
	}
}
