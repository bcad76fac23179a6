package helper

import (
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// ExpandUserPath expands a leading "~" in the supplied path to the current
// user's home directory.
func ExpandUserPath(path string) (string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to expand path %v", path)
	}
	return p, nil
}
