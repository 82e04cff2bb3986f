package api

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse reports the running build and its environment.
type VersionResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}
