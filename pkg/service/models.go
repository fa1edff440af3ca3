// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/session"
)

// User is a registered account. Password holds a bcrypt hash and is never
// returned by the API.
type User struct {
	Username     string    `json:"username"`
	Password     string    `json:"password,omitempty"`
	Name         string    `json:"name"`
	Organization string    `json:"organization"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public returns the user without the password hash.
func (u User) Public() User {
	u.Password = ""
	return u
}

// FarmerSummary is the farmer part of a saved simulation.
type FarmerSummary struct {
	Name         string  `json:"name"`
	ID           string  `json:"id"`
	InitialScore float64 `json:"initialKhetscore"`
	FinalScore   float64 `json:"finalKhetscore"`
}

// Simulation is a saved three-season trajectory. Immutable once created.
type Simulation struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Farmer    FarmerSummary          `json:"farmer"`
	Seasons   []session.SeasonRecord `json:"seasons"`
}
