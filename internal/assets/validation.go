package assets

import (
	"fmt"
	"path"
	"strings"
)

// ValidateAssetName checks that an asset name is a clean, relative,
// slash-separated path that stays inside its base directory.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "\\\x00") || path.IsAbs(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	if path.Clean(name) != name {
		return fmt.Errorf("%w: %q is not clean", ErrInvalidAssetName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
