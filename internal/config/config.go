package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/arcade-backend/internal/paddle"
	"github.com/rocketscienceinc/arcade-backend/internal/repository/storage"
)

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string        `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"1h"`
	Redis      Redis         `yaml:"redis"`
	Paddle     Paddle        `yaml:"paddle"`
}

type Redis struct {
	Host        string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	DialTimeout time.Duration `yaml:"dial-timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
}

// Paddle holds the court geometry and the clock rate of the paddle game.
// Distances are in pixels, speeds in pixels per tick.
type Paddle struct {
	TickRate      int     `yaml:"tick-rate" env-default:"60"`
	TargetScore   int     `yaml:"target-score" env-default:"5"`
	CourtWidth    float64 `yaml:"court-width" env-default:"800"`
	CourtHeight   float64 `yaml:"court-height" env-default:"500"`
	PaddleWidth   float64 `yaml:"paddle-width" env-default:"12"`
	PaddleHeight  float64 `yaml:"paddle-height" env-default:"100"`
	PaddleOffset  float64 `yaml:"paddle-offset" env-default:"20"`
	PaddleSpeed   float64 `yaml:"paddle-speed" env-default:"8"`
	BallSize      float64 `yaml:"ball-size" env-default:"12"`
	ServeSpeed    float64 `yaml:"serve-speed" env-default:"6"`
	SpeedUp       float64 `yaml:"speed-up" env-default:"1.05"`
	MaxDeflection float64 `yaml:"max-deflection" env-default:"5"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Paddle.EngineConfig().Validate(); err != nil {
		return nil, fmt.Errorf("invalid paddle config: %w", err)
	}

	if config.Paddle.TickRate <= 0 {
		return nil, fmt.Errorf("invalid paddle config: tick-rate must be positive, got %d", config.Paddle.TickRate)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Redis) StorageOptions() storage.Options {
	return storage.Options{
		Addr:        that.GetRedisAddr(),
		Password:    that.Password,
		DB:          that.DB,
		DialTimeout: that.DialTimeout,
	}
}

// TickInterval - duration of one physics step.
func (that *Paddle) TickInterval() time.Duration {
	return time.Second / time.Duration(that.TickRate)
}

func (that *Paddle) EngineConfig() paddle.Config {
	return paddle.Config{
		CourtWidth:    that.CourtWidth,
		CourtHeight:   that.CourtHeight,
		PaddleWidth:   that.PaddleWidth,
		PaddleHeight:  that.PaddleHeight,
		PaddleOffset:  that.PaddleOffset,
		PaddleSpeed:   that.PaddleSpeed,
		BallSize:      that.BallSize,
		ServeSpeed:    that.ServeSpeed,
		SpeedUp:       that.SpeedUp,
		MaxDeflection: that.MaxDeflection,
		TargetScore:   that.TargetScore,
	}
}
