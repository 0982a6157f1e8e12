package config

import (
	"strings"
	"time"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type FlowConfig interface {
	GetFrontendURL() string
	GetLoginSessionTTL() time.Duration
	GetLoginSessionSweepInterval() time.Duration
}

type StoreConfig interface {
	GetSessionStore() string
	GetRedisURL() string
}

type Flow struct {
	FrontendURL     string
	LoginSessionTTL time.Duration
	SweepInterval   time.Duration
	SessionStore    string
	RedisURL        string
}

var (
	_ FlowConfig  = Flow{}
	_ StoreConfig = Flow{}
)

func loadFlow() Flow {
	return Flow{
		FrontendURL:     GetEnv("FRONTEND_URL", "http://localhost:3000"),
		LoginSessionTTL: GetEnvDuration("LOGIN_SESSION_TTL", 5*time.Minute),
		SweepInterval:   GetEnvDuration("LOGIN_SESSION_SWEEP_INTERVAL", time.Minute),
		SessionStore:    strings.ToLower(GetEnv("SESSION_STORE", StoreMemory)),
		RedisURL:        GetEnv("REDIS_URL", ""),
	}
}

func (f Flow) GetFrontendURL() string {
	return strings.TrimSuffix(f.FrontendURL, "/")
}

func (f Flow) GetLoginSessionTTL() time.Duration {
	if f.LoginSessionTTL <= 0 {
		return 5 * time.Minute
	}
	return f.LoginSessionTTL
}

func (f Flow) GetLoginSessionSweepInterval() time.Duration {
	return f.SweepInterval
}

func (f Flow) GetSessionStore() string {
	if f.SessionStore == "" {
		return StoreMemory
	}
	return f.SessionStore
}

func (f Flow) GetRedisURL() string {
	return f.RedisURL
}
