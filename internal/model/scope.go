package model

// Environment is the deployment environment name.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// Scope identifies the session a request operates on. Authentication and
// routing to the key are handled upstream; by the time a Scope exists the
// caller is entitled to the session.
type Scope struct {
	SessionKey string
}
