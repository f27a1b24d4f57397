package config

import (
	"errors"
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	Cache   Cache   `yaml:"cache"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

type Storage struct {
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentialsFile"`
	PublicBaseURL   string `yaml:"publicBaseURL"`
}

// Cache selects the proof snapshot cache backend. Backend is "memory" or
// "memcached"; MemcachedAddr is required for the latter.
type Cache struct {
	Backend       string `yaml:"backend"`
	MemcachedAddr string `yaml:"memcachedAddr"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}
	if config.Cache.Backend == "" {
		config.Cache.Backend = "memory"
	}
	if config.Cache.Backend == "memcached" && config.Cache.MemcachedAddr == "" {
		return Config{}, errors.New("config: cache.memcachedAddr is required for the memcached backend")
	}
	if config.Storage.Bucket == "" {
		return Config{}, errors.New("config: storage.bucket is required")
	}

	return config, nil
}
