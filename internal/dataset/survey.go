package dataset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

var surveyExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
}

// ImageSurvey summarizes the screenshots found under a directory tree
type ImageSurvey struct {
	Root  string
	Total int
	// Extensions counts files by extension exactly as written on disk
	Extensions map[string]int
	// Folders counts files per directory relative to Root
	Folders map[string]int
	// Warnings lists extensions that appear in more than one letter case
	Warnings []string
}

// SurveyImages walks root recursively and tallies image files
func SurveyImages(root string) (*ImageSurvey, error) {
	survey := &ImageSurvey{
		Root:       root,
		Extensions: make(map[string]int),
		Folders:    make(map[string]int),
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if !surveyExtensions[strings.ToLower(ext)] {
			return nil
		}
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			rel = filepath.Dir(path)
		}
		survey.Total++
		survey.Extensions[ext]++
		survey.Folders[rel]++
		return nil
	})
	if err != nil {
		return nil, &LoadError{Path: root, Message: "failed to survey images", Cause: err}
	}

	survey.Warnings = mixedCaseWarnings(survey.Extensions)
	return survey, nil
}

// SortedExtensions returns the surveyed extensions in lexical order
func (s *ImageSurvey) SortedExtensions() []string {
	return sortedKeys(s.Extensions)
}

// SortedFolders returns the surveyed folders in lexical order
func (s *ImageSurvey) SortedFolders() []string {
	return sortedKeys(s.Folders)
}

func mixedCaseWarnings(extensions map[string]int) []string {
	variants := make(map[string][]string)
	for ext := range extensions {
		lower := strings.ToLower(ext)
		variants[lower] = append(variants[lower], ext)
	}

	var warnings []string
	for _, lower := range sortedKeys(variants) {
		seen := variants[lower]
		if len(seen) < 2 {
			continue
		}
		sort.Strings(seen)
		warnings = append(warnings, fmt.Sprintf("mixed case: %s", strings.Join(seen, " and ")))
	}
	return warnings
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
