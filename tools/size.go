package tools

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/tekutils/tek/errors"
)

var sizeUnits = []string{"bytes", "KB", "MB", "GB", "TB"}

// SizeofFmt formats a byte count with prec decimals. With bi the steps are
// 1024, otherwise 1000; the unit names are the same either way.
func SizeofFmt(num float64, prec int, bi bool) string {
	step := 1000.0
	if bi {
		step = 1024.0
	}
	unit := sizeUnits[0]
	for i, u := range sizeUnits {
		unit = u
		if num < step || i == len(sizeUnits)-1 {
			break
		}
		num /= step
	}
	return fmt.Sprintf("%.*f %s", prec, num, unit)
}

// EnsureFreeSpace fails with ErrNotEnoughSpace unless dir has wanted bytes free.
func EnsureFreeSpace(dir string, wanted uint64) error {
	avail, err := FreeSpaceInDir(dir)
	if err != nil {
		return err
	}
	if avail < wanted {
		return errors.Newf(errors.ErrNotEnoughSpace,
			"Not enough space in directory %q (%s needed, %s available)",
			dir, humanize.IBytes(wanted), humanize.IBytes(avail)).
			WithDetail("wanted", wanted).
			WithDetail("available", avail)
	}
	return nil
}
