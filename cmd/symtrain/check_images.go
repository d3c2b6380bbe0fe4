package main

import (
	"github.com/spf13/cobra"

	"github.com/awside/symtrain-assistant/internal/dataset"
)

var checkImagesCmd = &cobra.Command{
	Use:   "check-images",
	Short: "Survey screenshot formats under a directory",
	Long:  "Recursively counts image files by extension and folder and warns when one extension appears in several letter cases.",
	RunE:  runCheckImages,
}

var checkImagesDir string

func init() {
	checkImagesCmd.Flags().StringVar(&checkImagesDir, "dir", "", "Directory to survey (default: data directory)")
	rootCmd.AddCommand(checkImagesCmd)
}

func runCheckImages(cmd *cobra.Command, _ []string) error {
	dir := checkImagesDir
	if dir == "" {
		dir = appConfig.DataDir
	}

	survey, err := dataset.SurveyImages(dir)
	if err != nil {
		return err
	}
	printer(cmd).PrintImageSurvey(survey)
	return nil
}
