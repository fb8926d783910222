package stream

// ioctlInputQueue is FIONREAD, _IOR('f', 127, int), which x/sys/unix does
// not export for darwin.
const ioctlInputQueue = 0x4004667f
