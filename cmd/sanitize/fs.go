package main

import (
	"io/fs"
	"os"
)

// NewFS returns the file system of the host. Unlike os.DirFS it accepts relative and absolute paths as given on the command line.
func NewFS() fs.FS {
	return osFS{}
}

type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func (osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}
