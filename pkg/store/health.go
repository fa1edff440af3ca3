// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// HealthChecker provides store health check functionality
type HealthChecker struct {
	store   Store
	backend string
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(s Store, backend string) *HealthChecker {
	return &HealthChecker{store: s, backend: backend}
}

// Check pings the store with a 2 second timeout
func (h *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logrus.Errorf("%s store health check failed: %v", h.backend, err)
		return err
	}

	logrus.Debugf("%s store health check passed", h.backend)
	return nil
}

// IsHealthy returns true if the store is reachable
func (h *HealthChecker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx) == nil
}
