// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/catalog"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/farmer"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/scoring"
	"github.com/sirupsen/logrus"
)

// InitCatalog loads the practice and weather catalog. An empty path selects
// the built-in catalog.
func InitCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cat := catalog.Default()
		logrus.Infof("using built-in catalog (%d practices, %d weather shocks)", len(cat.Practices()), len(cat.Shocks()))
		return cat, nil
	}

	cat, err := catalog.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", path, err)
	}
	logrus.Infof("loaded catalog from %s (%d practices, %d weather shocks)", path, len(cat.Practices()), len(cat.Shocks()))
	return cat, nil
}

// InitFarmers loads the farmer directory. An empty directory is allowed but logged.
func InitFarmers(path string) (*farmer.Directory, error) {
	dir, err := farmer.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load farmer data from %s: %w", path, err)
	}
	if dir.Len() == 0 {
		logrus.Warnf("farmer data at %s has no valid rows", path)
	} else {
		logrus.Infof("loaded %d farmers from %s", dir.Len(), path)
	}
	return dir, nil
}

// InitEngine creates the scoring engine shared by all sessions.
func InitEngine(cat *catalog.Catalog, seed uint64) *scoring.Engine {
	if seed != 0 {
		logrus.Infof("scoring engine seeded with %d", seed)
	}
	return scoring.NewEngine(cat.Shocks(), scoring.NewSeededSource(seed))
}
