package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// Chunking policy passed to the text splitter
	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"800"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"200"`
	MinChunkSize int `envconfig:"MIN_CHUNK_SIZE" default:"5"`
	MaxChunks    int `envconfig:"MAX_CHUNKS" default:"10000"`

	// EmbedBatchSize trades progress granularity and peak memory against
	// round-trips to the embedding backend
	EmbedBatchSize int `envconfig:"EMBED_BATCH_SIZE" default:"10"`

	// Retrieval policy
	TopK                int     `envconfig:"TOP_K" default:"8"`
	SimilarityThreshold float32 `envconfig:"SIMILARITY_THRESHOLD" default:"0.45"`

	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"en"`

	IngestWorkers int `envconfig:"INGEST_WORKERS" default:"4"`

	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"52428800"`

	// Optional archive of original uploads
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"documind-archive"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("DOCUMIND", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
