package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	envVar         = "ENV"
	logLevelEnvVar = "LOG_LEVEL"

	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	IsDevelopment() bool
}

type EnvVars struct {
	Port     string
	AppName  string
	Env      string
	LogLevel string
}

var _ EnvConfig = EnvVars{}

func loadEnvVars() EnvVars {
	return EnvVars{
		Port:     GetEnv(portEnvVar, "8080"),
		AppName:  GetEnv(appNameVar, "BFF Gateway"),
		Env:      strings.ToUpper(GetEnv(envVar, EnvProduction)),
		LogLevel: GetEnv(logLevelEnvVar, "info"),
	}
}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

// GetEnv defaults to PROD so that the hardening rules apply unless DEV is set.
func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return EnvProduction
	}
	return e.Env
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) IsDevelopment() bool {
	return e.GetEnv() == EnvDevelopment
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvBool returns defaultValue when the variable is unset or unparsable.
func GetEnvBool(envVar string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvInt(envVar string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetEnvList splits a comma or space separated variable, dropping empty entries.
func GetEnvList(envVar string, defaultValue []string) []string {
	raw := os.Getenv(envVar)
	if strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' '
	})
	return fields
}
