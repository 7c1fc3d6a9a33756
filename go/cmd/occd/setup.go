package main

import (
	"net"
	"os"

	"github.com/pkg/errors"
)

func listen(addr string) (net.Listener, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listening on %s", addr)
	}
	return lis, nil
}

func loadSigningKey(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("signing-key-file is required")
	}
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading signing key file %s", path)
	}
	if len(key) == 0 {
		return nil, errors.Errorf("signing key file %s is empty", path)
	}
	return key, nil
}
