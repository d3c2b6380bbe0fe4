package dataset

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/awside/symtrain-assistant/internal/types"
)

// UnknownName is used for simulations without a name
const UnknownName = "Unknown"

// LoadSimulation loads a single simulation document from a JSON file
func LoadSimulation(path string) (*types.Simulation, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}

	var sim types.Simulation
	if err := json.Unmarshal(content, &sim); err != nil {
		return nil, &LoadError{Path: path, Message: "failed to unmarshal JSON", Cause: err}
	}

	if strings.TrimSpace(sim.Name) == "" {
		sim.Name = UnknownName
	}
	sim.FilePath = path
	sim.FileName = filepath.Base(path)
	sim.Company = filepath.Base(filepath.Dir(path))

	return &sim, nil
}

// LoadSimulations walks dir recursively and loads every *.json document in
// lexical path order. Unparseable files are logged and skipped, as are
// documents with neither audio nor visual items.
func LoadSimulations(dir string, logger *zap.Logger) ([]*types.Simulation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Path: dir, Message: "failed to open data directory", Cause: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Path: dir, Message: "data path is not a directory"}
	}

	paths, err := findJSONFiles(dir)
	if err != nil {
		return nil, &LoadError{Path: dir, Message: "failed to walk data directory", Cause: err}
	}

	sims := make([]*types.Simulation, 0, len(paths))
	for _, path := range paths {
		sim, err := LoadSimulation(path)
		if err != nil {
			logger.Warn("skipping simulation", zap.String("path", path), zap.Error(err))
			continue
		}
		if len(sim.AudioItems) == 0 && len(sim.VisualItems) == 0 {
			logger.Debug("skipping empty simulation", zap.String("path", path))
			continue
		}
		sims = append(sims, sim)
	}

	logger.Info("loaded simulations",
		zap.String("dir", dir),
		zap.Int("files", len(paths)),
		zap.Int("simulations", len(sims)))

	return sims, nil
}

func findJSONFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
