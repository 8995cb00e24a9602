//go:build !unix

package repository

import (
	"errors"
	"io/fs"
	"os"
)

var errLocked = errors.New("lock held")

// tryLock uses exclusive creation of the lock file. A crashed holder leaves
// the file behind; remove it by hand.
func tryLock(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, errLocked
		}
		return nil, err
	}

	return func() {
		_ = f.Close()
		_ = os.Remove(path)
	}, nil
}
