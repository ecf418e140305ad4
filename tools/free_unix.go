//go:build unix

package tools

import (
	"golang.org/x/sys/unix"

	"github.com/tekutils/tek/errors"
)

// FreeSpaceInDir returns the free bytes of the filesystem holding dir.
func FreeSpaceInDir(dir string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, errors.Wrapf(err, errors.ErrInvalidInput, "cannot stat filesystem of %s", dir)
	}
	return uint64(st.Bfree) * uint64(st.Bsize), nil
}
