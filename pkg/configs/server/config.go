package server

import "time"

type ServerConfig struct {
	port            string
	engine          *EngineConfig
	crossValidation *CrossValidationConfig
	database        string
	allowOrigins    []string
}

// Port to listen. default = "8080"
func (c *ServerConfig) Port() string {
	return c.port
}

func (c *ServerConfig) Engine() *EngineConfig {
	return c.engine
}

func (c *ServerConfig) CrossValidation() *CrossValidationConfig {
	return c.crossValidation
}

// Connection string for database archiving projects.
//
// Empty means projects are kept only in memory.
func (c *ServerConfig) Database() string {
	return c.database
}

// Origins allowed by CORS. default = ["*"]
func (c *ServerConfig) AllowOrigins() []string {
	return append([]string{}, c.allowOrigins...)
}

// Configuration for the rule-learning engine.
type EngineConfig struct {
	url           string
	timeout       time.Duration
	readinessWait time.Duration
}

// API root of the engine.
func (e *EngineConfig) URL() string {
	return e.url
}

// Timeout of each request to the engine. default = 60s
func (e *EngineConfig) Timeout() time.Duration {
	return e.timeout
}

// How long to wait for the engine to be ready at startup. default = 30s
//
// Zero means the server starts without waiting.
func (e *EngineConfig) ReadinessWait() time.Duration {
	return e.readinessWait
}

type CrossValidationConfig struct {
	parallelism int
}

// Number of folds calculated at once. default = 1
//
// Zero means no limit.
func (c *CrossValidationConfig) Parallelism() int {
	return c.parallelism
}
