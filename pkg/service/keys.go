package service

// Store keys. Per-user keys are suffixed with the username.
const (
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"

	simulationsKeyPrefix = "simulations_"
	draftKeyPrefix       = "draft_"
)

// SimulationsKey returns the key holding a user's saved simulations.
func SimulationsKey(username string) string {
	return simulationsKeyPrefix + username
}

// DraftKey returns the key holding a user's draft.
func DraftKey(username string) string {
	return draftKeyPrefix + username
}
