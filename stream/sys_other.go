//go:build !(linux || darwin)

package stream

func fdListen(fd int, mightSeek bool) (result ListenResult, pushed []byte, err error) {
	return LISTEN_UNKNOWN, nil, nil
}

func socketListen(fd int) (result ListenResult, err error) {
	return LISTEN_UNKNOWN, nil
}

// openDescriptor falls back to a buffered handle where raw descriptors are
// not available.
func openDescriptor(target string, flag int, name string, opts FileOptions) (fv fileVariant, err error) {
	hs, err := openHandle(target, flag, name, opts)
	if err != nil {
		return
	}
	hs.(*HandleStream).buffering = BUFFER_NONE
	fv = hs
	return
}
