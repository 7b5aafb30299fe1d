//go:build unix

package filestore

import "golang.org/x/sys/unix"

// FreeSpace reports the bytes available to unprivileged writers on the
// filesystem holding the store root. Callers use it to stop shipping before
// the local disk fills.
func (s *LocalStore) FreeSpace() (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(s.root, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil //nolint:gosec // Bsize is never negative
}
