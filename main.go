// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package main

import (
	"context"

	"github.com/AccelByte/extend-khetscore-simulation/internal/app"
	"github.com/AccelByte/extend-khetscore-simulation/internal/config"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/common"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Infof("starting khetscore simulation server..")

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid config: %v", err)
	}

	common.ConfigureLogging(cfg.Environment, cfg.LogLevel)

	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		logrus.Fatalf("application error: %v", err)
	}
}
