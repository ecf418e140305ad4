//go:build !unix

package tools

import "github.com/tekutils/tek/errors"

// FreeSpaceInDir is not supported on this platform.
func FreeSpaceInDir(dir string) (uint64, error) {
	return 0, errors.Newf(errors.ErrInternal, "free space of %s: unsupported platform", dir)
}
