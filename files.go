/*
Copyright © 2025  M.Watermann, 10247 Berlin, Germany

	    All rights reserved
	EMail : <support@mwat.de>
*/
package webgate

//lint:file-ignore ST1017 - I prefer Yoda conditions

import (
	"os"
)

// `Exists()` checks if a file exists at the given path.
//
// Parameters:
//   - `aFile`: The path to the file to be checked.
//
// Returns:
//   - `bool`: Returns `true` if the file exists, `false` otherwise.
//
// NOTE: If `aFile` is a directory-name this function will return `false`.
func Exists(aFile string) bool {
	fileInfo, err := os.Stat(aFile)
	if nil != err {
		return false
	}

	return !fileInfo.IsDir()
} // Exists()

// `isDirectory()` checks whether the given path is a directory.
//
// Parameters:
//   - `aPath`: The path to be checked.
//
// Returns:
//   - `bool`: Returns `true` if the given path is a directory,
//     `false` otherwise.
func isDirectory(aPath string) bool {
	fileInfo, err := os.Stat(aPath)
	if nil != err {
		return false
	}

	return fileInfo.IsDir()
} // isDirectory()

/* _EoF_ */
