package server

import (
	"fmt"
	"time"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/server.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

type ServerConfigMarshall struct {
	Port            string                         `yaml:"port,omitempty"`
	Engine          *EngineConfigMarshall          `yaml:"engine"`
	CrossValidation *CrossValidationConfigMarshall `yaml:"crossValidation,omitempty"`
	Database        string                         `yaml:"database,omitempty"`
	AllowOrigins    []string                       `yaml:"allowOrigins,omitempty"`
}

var _ Marshalled[*ServerConfig] = &ServerConfigMarshall{}

func (s *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	port := s.Port
	if port == "" {
		port = "8080"
	}
	cv := s.CrossValidation
	if cv == nil {
		cv = &CrossValidationConfigMarshall{}
	}
	origins := s.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &ServerConfig{
		port:            port,
		engine:          nonnil(s.Engine, path+".engine").trySeal(path + ".engine"),
		crossValidation: cv.trySeal(path + ".crossValidation"),
		database:        s.Database,
		allowOrigins:    origins,
	}
}

type EngineConfigMarshall struct {
	URL           string `yaml:"url"`
	Timeout       string `yaml:"timeout,omitempty"`
	ReadinessWait string `yaml:"readinessWait,omitempty"`
}

func (e *EngineConfigMarshall) trySeal(path string) *EngineConfig {
	return &EngineConfig{
		url:           required(e.URL, path+".url"),
		timeout:       duration(e.Timeout, 60*time.Second, path+".timeout"),
		readinessWait: duration(e.ReadinessWait, 30*time.Second, path+".readinessWait"),
	}
}

type CrossValidationConfigMarshall struct {
	Parallelism *int `yaml:"parallelism,omitempty"`
}

func (c *CrossValidationConfigMarshall) trySeal(path string) *CrossValidationConfig {
	parallelism := 1
	if c.Parallelism != nil {
		parallelism = *c.Parallelism
	}
	if parallelism < 0 {
		panic(fmt.Errorf("%s.parallelism should not be negative (got %d)", path, parallelism))
	}
	return &CrossValidationConfig{parallelism: parallelism}
}

func duration(v string, defaultValue time.Duration, path string) time.Duration {
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s can not be parsed: %w", path, err))
	}
	if d < 0 {
		panic(fmt.Errorf("%s should not be negative (got %s)", path, v))
	}
	return d
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}
