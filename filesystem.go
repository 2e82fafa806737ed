package solcbuild

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

type fileRef struct {
	path    string
	modTime time.Time
}

func readDir(dirPath string) ([]*fileRef, error) {
	files := []*fileRef{}

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// dependencies are resolved by solc, not compiled as project files
			if path != dirPath && (d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		// filter by solidity files
		if !strings.HasSuffix(path, ".sol") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		// use the relative path with respect to the contracts dir
		rel, err := filepath.Rel(dirPath, path)
		if err != nil {
			return err
		}

		files = append(files, &fileRef{
			path:    rel,
			modTime: info.ModTime(),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return files, nil
}
