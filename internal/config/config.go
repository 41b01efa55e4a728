package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"

	AssetDriverMinIO  = "minio"
	AssetDriverMemory = "memory"
)

type Server struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodySize  int64
	CORSOrigin   string
}

type DB struct {
	Driver     string
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type Mongo struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

type Assets struct {
	Driver            string
	UploadConcurrency int
}

type Logger struct {
	Mode     string
	Filename string
}

type Reconcile struct {
	Schedule string
	Grace    time.Duration
	Workers  int
}

// Admin is the bootstrap account created on startup when Email is set.
type Admin struct {
	Name     string
	Email    string
	Password string
}

type Config struct {
	Server              Server
	DB                  DB
	Mongo               Mongo
	MinIO               MinIO
	Assets              Assets
	Logger              Logger
	Reconcile           Reconcile
	Admin               Admin
	JWTSecretKey        string
	AccessTokenDuration time.Duration
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseDuration falls back when the value is empty or malformed.
func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func LoadServer() Server {
	return Server{
		Port:         getEnvAsInt("SERVER_PORT", 8080),
		ReadTimeout:  parseDuration(getEnv("SERVER_READ_TIMEOUT", "30s"), 30*time.Second),
		WriteTimeout: parseDuration(getEnv("SERVER_WRITE_TIMEOUT", "60s"), 60*time.Second),
		MaxBodySize:  getEnvAsInt64("MAX_BODY_SIZE", 50*1024*1024),
		CORSOrigin:   getEnv("CORS_ORIGIN", "*"),
	}
}

func LoadDB() DB {
	return DB{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverMongo)),
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "perfume"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMongo() Mongo {
	return Mongo{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "perfume"),
		Timeout:  parseDuration(getEnv("MONGO_TIMEOUT", "30s"), 30*time.Second),
	}
}

func LoadMinIO() MinIO {
	m := MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "images"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		PublicURL:  getEnv("MINIO_PUBLIC_URL", ""),
	}

	// public url defaults to the endpoint itself
	if m.PublicURL == "" {
		scheme := "http"
		if m.UseSSL {
			scheme = "https"
		}
		m.PublicURL = scheme + "://" + m.Endpoint
	}
	m.PublicURL = strings.TrimSuffix(m.PublicURL, "/")

	return m
}

func LoadAssets() Assets {
	return Assets{
		Driver:            strings.ToLower(getEnv("ASSET_DRIVER", AssetDriverMinIO)),
		UploadConcurrency: getEnvAsInt("ASSET_UPLOAD_CONCURRENCY", 4),
	}
}

func LoadLogger() Logger {
	return Logger{
		Mode:     getEnv("LOG_MODE", "development"),
		Filename: getEnv("LOG_FILE", ""),
	}
}

func LoadReconcile() Reconcile {
	return Reconcile{
		Schedule: getEnv("RECONCILE_SCHEDULE", "@every 10m"),
		Grace:    parseDuration(getEnv("RECONCILE_GRACE", "1h"), time.Hour),
		Workers:  getEnvAsInt("RECONCILE_WORKERS", 4),
	}
}

func LoadAdmin() Admin {
	return Admin{
		Name:     getEnv("ADMIN_NAME", "Administrator"),
		Email:    getEnv("ADMIN_EMAIL", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		Server:              LoadServer(),
		DB:                  LoadDB(),
		Mongo:               LoadMongo(),
		MinIO:               LoadMinIO(),
		Assets:              LoadAssets(),
		Logger:              LoadLogger(),
		Reconcile:           LoadReconcile(),
		Admin:               LoadAdmin(),
		JWTSecretKey:        getEnv("JWT_SECRET_KEY", ""),
		AccessTokenDuration: parseDuration(getEnv("ACCESS_TOKEN_DURATION", "2h"), 2*time.Hour),
	}
}
