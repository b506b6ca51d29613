//go:build !unix

package buf

func mapAnonymous(size int) ([]byte, error) {
	return nil, errMapUnsupported
}

func unmapAnonymous(data []byte) error {
	return errMapUnsupported
}
