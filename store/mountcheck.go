package store

import (
	"github.com/moby/sys/mountinfo"
	"github.com/pkg/errors"
)

// CheckBrickPathFree reports whether path is already a mount point
// somewhere else on the host. The management daemon never performs the
// FUSE mount itself (spec.md §1 keeps wire/transport and mount
// establishment out of scope), so this is a bootstrap-time sanity
// check only: warn the operator before adopting a brick path that
// turns out to already be someone else's mount, rather than silently
// writing through it.
func CheckBrickPathFree(path string) (bool, error) {
	mounted, err := mountinfo.Mounted(path)
	if err != nil {
		return false, errors.Wrapf(err, "store: check mount for %s", path)
	}
	return !mounted, nil
}
