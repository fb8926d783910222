package stream

import "golang.org/x/sys/unix"

// ioctlInputQueue requests the number of bytes waiting to be read.
const ioctlInputQueue = unix.TIOCINQ
