package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Feed   FeedConfig
	CORS   CORSConfig
}

// Load builds the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	store, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	feed, err := loadFeedConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Store:  store,
		Feed:   feed,
		CORS:   CORSConfig{Origin: getEnvOrDefault("CORS_ORIGIN", "*")},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// StoreConfig describes item store bootstrapping.
type StoreConfig struct {
	Seed bool
}

// FeedConfig describes the change-event feed.
type FeedConfig struct {
	Heartbeat time.Duration
	Buffer    int
}

// CORSConfig describes the allowed browser origin.
type CORSConfig struct {
	Origin string
}

// loadServerConfig parses the listen address. PORT accepts a bare port
// number, ":8080", or a full host:port pair.
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

func loadStoreConfig() (StoreConfig, error) {
	seed, err := parseBoolEnv("ITEMS_SEED", false)
	if err != nil {
		return StoreConfig{}, err
	}
	return StoreConfig{Seed: seed}, nil
}

func loadFeedConfig() (FeedConfig, error) {
	heartbeat := 15
	if override, err := parseOptionalIntEnv("FEED_HEARTBEAT_SECONDS"); err != nil {
		return FeedConfig{}, err
	} else if override != nil {
		if *override < 1 {
			heartbeat = 1
		} else {
			heartbeat = *override
		}
	}

	buffer := 16
	if override, err := parseOptionalIntEnv("FEED_BUFFER"); err != nil {
		return FeedConfig{}, err
	} else if override != nil {
		if *override < 1 {
			buffer = 1
		} else {
			buffer = *override
		}
	}

	return FeedConfig{
		Heartbeat: time.Duration(heartbeat) * time.Second,
		Buffer:    buffer,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
