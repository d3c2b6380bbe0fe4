package vision

import (
	"os"
	"path/filepath"
)

// probeExtensions are tried in order after the bare file id
var probeExtensions = []string{".JPG", ".jpg", ".PNG", ".png", ".JPEG", ".jpeg"}

// ImageLocator resolves a visual item's file id to an image on disk
type ImageLocator struct {
	// ImageDirs maps a file id to the directory of the document that declared it
	ImageDirs map[string]string
	// SourcePath is the path of a single source document.
	//
	// Deprecated: populate ImageDirs instead.
	SourcePath string
	// ImageDirectory is the fallback directory for every file id
	ImageDirectory string
}

// Dir returns the directory searched for fileID. Priority is the per-file
// map, then the directory of SourcePath, then ImageDirectory, then ".".
func (l ImageLocator) Dir(fileID string) string {
	if dir, ok := l.ImageDirs[fileID]; ok {
		return dir
	}
	if l.SourcePath != "" {
		return filepath.Dir(l.SourcePath)
	}
	if l.ImageDirectory != "" {
		return l.ImageDirectory
	}
	return "."
}

// Resolve returns the first existing path for fileID: the id as-is, then the
// id with each probe extension. It returns an *ImageNotFoundError when none exist.
func (l ImageLocator) Resolve(fileID string) (string, error) {
	dir := l.Dir(fileID)
	for _, candidate := range Candidates(dir, fileID) {
		if isRegularFile(candidate) {
			return candidate, nil
		}
	}
	return "", &ImageNotFoundError{FileID: fileID, Dir: dir}
}

// Candidates lists the probed paths for fileID in dir, in probe order
func Candidates(dir, fileID string) []string {
	base := filepath.Join(dir, fileID)
	paths := make([]string, 0, len(probeExtensions)+1)
	paths = append(paths, base)
	for _, ext := range probeExtensions {
		paths = append(paths, base+ext)
	}
	return paths
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
