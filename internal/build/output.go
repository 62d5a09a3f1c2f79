package build

import (
	"path"
	"strings"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docsite/internal/publisher"
)

// copyAssets publishes every file under src into dst, keeping the relative
// layout. Dotfiles and dot-directories are skipped.
func copyAssets(fsys afero.Fs, pub publisher.Publisher, src, dst string, minify bool) (int, error) {
	entries, err := afero.ReadDir(fsys, src)
	if err != nil {
		return 0, err
	}

	copied := 0
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		srcPath := path.Join(src, entry.Name())
		dstPath := path.Join(dst, entry.Name())

		if entry.IsDir() {
			n, err := copyAssets(fsys, pub, srcPath, dstPath, minify)
			copied += n
			if err != nil {
				return copied, err
			}
			continue
		}
		if err := copyFile(fsys, pub, srcPath, dstPath, minify); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

func copyFile(fsys afero.Fs, pub publisher.Publisher, src, dst string, minify bool) error {
	f, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return pub.Publish(publisher.Descriptor{TargetPath: dst, Src: f, Minify: minify})
}

// promoteIndex copies <website>/<index> over <website>/index.html. It
// reports false when the index page does not exist.
func promoteIndex(fsys afero.Fs, website, index string) (bool, error) {
	src := path.Join(website, index)
	dst := path.Join(website, "index.html")
	if src == dst {
		return afero.Exists(fsys, src)
	}
	ok, err := afero.Exists(fsys, src)
	if err != nil || !ok {
		return false, err
	}
	data, err := afero.ReadFile(fsys, src)
	if err != nil {
		return false, err
	}
	return true, afero.WriteFile(fsys, dst, data, 0o644)
}
