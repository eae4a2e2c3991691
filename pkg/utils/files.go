package utils

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

var nonIdentifier = regexp.MustCompile(`[^0-9A-Za-z]`)

// NameToIdentifier replaces every character that is not an ASCII letter or
// digit with an underscore, so passage titles and asset names can be used
// as file names on the target.
func NameToIdentifier(s string) string {
	return nonIdentifier.ReplaceAllString(s, "_")
}

// AssetIdentifier returns the identifier for an asset reference such as
// "images/Old Map.png": the base name, extension dropped, sanitized.
// References use forward slashes whatever the host system.
func AssetIdentifier(ref string) string {
	base := path.Base(strings.ReplaceAll(ref, `\`, "/"))
	return NameToIdentifier(strings.TrimSuffix(base, path.Ext(base)))
}
