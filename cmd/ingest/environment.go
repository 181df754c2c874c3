package main

import (
	"hr-helpdesk-be/internal/bootstrap"
	"hr-helpdesk-be/internal/config"
	"hr-helpdesk-be/internal/pkg/logger"
	"hr-helpdesk-be/pkg/embedding"
	"hr-helpdesk-be/pkg/vectorindex"
)

type environment struct {
	gateway *embedding.Gateway
	index   vectorindex.Index
	manager *vectorindex.Manager
	close   func()
}

func newEnvironment(cfg *config.Config, force bool, log logger.ILogger) (*environment, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	gateway, err := bootstrap.NewEmbeddingGateway(cfg, log)
	if err != nil {
		return nil, err
	}
	pipeline, err := bootstrap.NewIngestionPipeline(cfg, log)
	if err != nil {
		return nil, err
	}
	index, err := bootstrap.NewVectorIndex(cfg, db)
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	return &environment{
		gateway: gateway,
		index:   index,
		manager: bootstrap.NewIndexManager(cfg, index, pipeline, gateway, force, log),
		close: func() {
			pipeline.Release()
			if db != nil {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}
		},
	}, nil
}
