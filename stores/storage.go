package stores

import (
	"pinboard-server/config"
	"pinboard-server/core"
	"pinboard-server/stores/memory"
	"pinboard-server/stores/sqlite"

	"github.com/sirupsen/logrus"
)

func GetStore(cfg *config.Config) (core.PostStore, error) {
	var store core.PostStore

	storageField := logrus.Fields{
		"storageType": cfg.StorageType,
	}

	switch cfg.StorageType {
	case config.StorageMemory:
		store = memory.NewPostStore()
		storageField["storageType"] = "in-memory"
	default:
		storageField["dataSourceName"] = cfg.DataSourceName
		storageField["driver"] = cfg.SQLiteDriver
		var err error
		store, err = sqlite.NewPostStore(cfg.SQLiteDriver, cfg.DataSourceName)
		if err != nil {
			return nil, err
		}
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store, nil
}
