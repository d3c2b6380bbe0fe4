package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurveyImages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "acme", "one.jpg"), "x")
	writeFile(t, filepath.Join(root, "acme", "two.JPG"), "x")
	writeFile(t, filepath.Join(root, "globex", "three.png"), "x")
	writeFile(t, filepath.Join(root, "globex", "deep", "four.gif"), "x")
	writeFile(t, filepath.Join(root, "globex", "doc.json"), "{}")
	writeFile(t, filepath.Join(root, "top.bmp"), "x")

	survey, err := SurveyImages(root)

	require.NoError(t, err)
	assert.Equal(t, 5, survey.Total)
	assert.Equal(t, map[string]int{".jpg": 1, ".JPG": 1, ".png": 1, ".gif": 1, ".bmp": 1}, survey.Extensions)
	assert.Equal(t, map[string]int{
		".":                              1,
		"acme":                           2,
		"globex":                         1,
		filepath.Join("globex", "deep"): 1,
	}, survey.Folders)
	assert.Equal(t, []string{"mixed case: .JPG and .jpg"}, survey.Warnings)
	assert.Equal(t, []string{".JPG", ".bmp", ".gif", ".jpg", ".png"}, survey.SortedExtensions())
	assert.Equal(t, ".", survey.SortedFolders()[0])
}

func TestSurveyImages_Empty(t *testing.T) {
	survey, err := SurveyImages(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 0, survey.Total)
	assert.Empty(t, survey.Warnings)
}

func TestSurveyImages_MissingRoot(t *testing.T) {
	_, err := SurveyImages(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
