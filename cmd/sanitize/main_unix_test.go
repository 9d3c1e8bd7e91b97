//go:build linux || darwin || netbsd || freebsd || solaris || openbsd

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/test"
)

func TestIsDirUnix(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.html")
	test.Error(t, os.WriteFile(file, nil, 0644))
	link := filepath.Join(dir, "link")
	test.Error(t, os.Symlink(dir, link))

	cases := []struct {
		name     string
		dir      string
		expected bool
	}{
		{"SimpleFile", "file", false},
		{"FileInCurrentDirectory", "./file", false},
		{"FileInParentDirectory", "../file", false},
		{"TrailingSeparator", "out/", true},
		{"ExistingDirectory", dir, true},
		{"ExistingFile", file, false},
		{"SymlinkToDirectory", link, false},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			actual := IsDir(c.dir)
			test.T(t, actual, c.expected)
		})
	}
}

func TestPreserveAttributes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.html")
	dst := filepath.Join(dir, "out.html")
	test.Error(t, os.WriteFile(src, []byte(`<p>x</p>`), 0600))
	test.Error(t, os.WriteFile(dst, nil, 0644))

	preserveMode = true
	defer func() {
		preserveMode = false
	}()
	preserveAttributes(src, dir, dst)

	info, err := os.Stat(dst)
	test.Error(t, err)
	test.T(t, info.Mode().Perm(), os.FileMode(0600))
}
