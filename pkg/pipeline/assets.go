package pipeline

import (
	"io/fs"
	"slices"

	"github.com/matzehuels/pinout/pkg/cache"
)

// hashAssets fingerprints the referenced asset files. Unreadable assets
// contribute their name only; rendering reports them properly.
func hashAssets(fsys fs.FS, names []string) string {
	if len(names) == 0 {
		return ""
	}
	names = slices.Clone(names)
	slices.Sort(names)
	names = slices.Compact(names)

	var buf []byte
	for _, n := range names {
		buf = append(buf, n...)
		buf = append(buf, 0)
		if fsys == nil {
			continue
		}
		if data, err := fs.ReadFile(fsys, n); err == nil {
			buf = append(buf, cache.Hash(data)...)
		}
		buf = append(buf, 0)
	}
	return cache.Hash(buf)
}
