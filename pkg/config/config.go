package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Scheduler  SchedulerConfig
	Cache      CacheConfig
	Attendance AttendanceConfig
	Grades     GradesConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig tunes the timetable generation engine.
type SchedulerConfig struct {
	Enabled     bool
	Deadline    time.Duration
	ProposalTTL time.Duration
}

// CacheConfig governs the read-through schedule cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// AttendanceConfig carries the geofence and fraud-check thresholds.
type AttendanceConfig struct {
	CampusCIDRs           []string
	GPSToleranceMeters    float64
	RejectDistanceM       float64
	MaxTravelSpeedKmh     float64
	VelocityWindow        time.Duration
	DefaultRadiusM        float64
	DefaultSessionMinutes int
}

// GradesConfig tunes the asynchronous GPA recomputation workers.
type GradesConfig struct {
	WorkerConcurrency int
	WorkerRetries     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		Enabled:     v.GetBool("ENABLE_SCHEDULER"),
		Deadline:    parseDuration(v.GetString("SCHEDULER_DEADLINE"), 30*time.Second),
		ProposalTTL: parseDuration(v.GetString("SCHEDULER_PROPOSAL_TTL"), 30*time.Minute),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 10*time.Minute),
		Prefix:  v.GetString("CACHE_PREFIX"),
	}

	cfg.Attendance = AttendanceConfig{
		CampusCIDRs:           splitAndTrim(v.GetString("ATTENDANCE_CAMPUS_CIDRS")),
		GPSToleranceMeters:    v.GetFloat64("ATTENDANCE_GPS_TOLERANCE_M"),
		RejectDistanceM:       v.GetFloat64("ATTENDANCE_REJECT_DISTANCE_M"),
		MaxTravelSpeedKmh:     v.GetFloat64("ATTENDANCE_MAX_TRAVEL_SPEED_KMH"),
		VelocityWindow:        parseDuration(v.GetString("ATTENDANCE_VELOCITY_WINDOW"), 2*time.Hour),
		DefaultRadiusM:        v.GetFloat64("ATTENDANCE_DEFAULT_RADIUS_M"),
		DefaultSessionMinutes: v.GetInt("ATTENDANCE_DEFAULT_SESSION_MINUTES"),
	}

	cfg.Grades = GradesConfig{
		WorkerConcurrency: v.GetInt("GRADES_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("GRADES_WORKER_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "campus_management")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_SCHEDULER", true)
	v.SetDefault("SCHEDULER_DEADLINE", "30s")
	v.SetDefault("SCHEDULER_PROPOSAL_TTL", "30m")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("CACHE_PREFIX", "campus")

	v.SetDefault("ATTENDANCE_CAMPUS_CIDRS", "10.0.0.0/8,192.168.0.0/16")
	v.SetDefault("ATTENDANCE_GPS_TOLERANCE_M", 20)
	v.SetDefault("ATTENDANCE_REJECT_DISTANCE_M", 500)
	v.SetDefault("ATTENDANCE_MAX_TRAVEL_SPEED_KMH", 120)
	v.SetDefault("ATTENDANCE_VELOCITY_WINDOW", "2h")
	v.SetDefault("ATTENDANCE_DEFAULT_RADIUS_M", 50)
	v.SetDefault("ATTENDANCE_DEFAULT_SESSION_MINUTES", 15)

	v.SetDefault("GRADES_WORKER_CONCURRENCY", 1)
	v.SetDefault("GRADES_WORKER_RETRIES", 3)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
