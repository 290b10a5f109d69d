package environment

import (
	env "github.com/Netflix/go-env"
)

// Environment holds service configuration loaded from the OS environment
// or from explicit overrides in tests.
type Environment struct {
	DataDir        string `env:"JSON_DUMP_DIR,default=./data"`
	MaxPayloadSize int64  `env:"JSON_DUMP_MAX_SIZE,default=1048576"`
	HostIP         string `env:"JSON_DUMP_HOST,default=127.0.0.1"`
	Port           int    `env:"JSON_DUMP_PORT,default=8080"`
	EnableCORS     string `env:"JSON_DUMP_CORS,default=0"`
	TrustedProxies string `env:"JSON_DUMP_TRUSTED_PROXIES"`
	Extras         env.EnvSet
}

// NewEnvironment initializes and returns a new Environment based on provided
// or default settings. Passing a non-nil environ uses it as-is, which keeps
// tests hermetic.
func NewEnvironment(environ *Environment) (*Environment, error) {
	if environ != nil {
		resolved := *environ
		if resolved.DataDir == "" {
			resolved.DataDir = "./data"
		}
		if resolved.MaxPayloadSize == 0 {
			resolved.MaxPayloadSize = 1 << 20
		}
		if resolved.HostIP == "" {
			resolved.HostIP = "127.0.0.1"
		}
		if resolved.Port == 0 {
			resolved.Port = 8080
		}
		return &resolved, nil
	}

	environment := &Environment{}
	extras, err := env.UnmarshalFromEnviron(environment)
	if err != nil {
		return nil, err
	}
	environment.Extras = extras

	return environment, nil
}
