package paddle

import (
	"errors"
	"fmt"
)

type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePlaying  Phase = "playing"
	PhasePaused   Phase = "paused"
	PhaseFinished Phase = "finished"
)

type Side string

const (
	SideNone  Side = ""
	SideLeft  Side = "left"
	SideRight Side = "right"
)

func (that Side) Opponent() Side {
	switch that {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return SideNone
	}
}

// Input is the held-key state of one paddle.
type Input struct {
	Up   bool `json:"up"`
	Down bool `json:"down"`
}

// Paddle Y is the top edge.
type Paddle struct {
	Y     float64 `json:"y"`
	Input Input   `json:"input"`
}

// Ball X/Y is the top-left corner of its bounding square.
type Ball struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

type Score struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// World is a snapshot of the court.
type World struct {
	Phase  Phase  `json:"phase"`
	Left   Paddle `json:"left"`
	Right  Paddle `json:"right"`
	Ball   Ball   `json:"ball"`
	Score  Score  `json:"score"`
	Winner Side   `json:"winner,omitempty"`
}

var ErrInvalidConfig = errors.New("invalid paddle config")

type Config struct {
	CourtWidth    float64
	CourtHeight   float64
	PaddleWidth   float64
	PaddleHeight  float64
	PaddleOffset  float64
	PaddleSpeed   float64
	BallSize      float64
	ServeSpeed    float64
	SpeedUp       float64
	MaxDeflection float64
	TargetScore   int
}

func DefaultConfig() Config {
	return Config{
		CourtWidth:    800,
		CourtHeight:   500,
		PaddleWidth:   12,
		PaddleHeight:  100,
		PaddleOffset:  20,
		PaddleSpeed:   8,
		BallSize:      12,
		ServeSpeed:    6,
		SpeedUp:       1.05,
		MaxDeflection: 5,
		TargetScore:   5,
	}
}

func (that Config) Validate() error {
	switch {
	case that.CourtWidth <= 0 || that.CourtHeight <= 0:
		return fmt.Errorf("%w: court must have a positive size", ErrInvalidConfig)
	case that.PaddleWidth <= 0 || that.PaddleHeight <= 0 || that.PaddleHeight > that.CourtHeight:
		return fmt.Errorf("%w: paddle must fit the court", ErrInvalidConfig)
	case that.BallSize <= 0 || that.BallSize > that.CourtHeight:
		return fmt.Errorf("%w: ball must fit the court", ErrInvalidConfig)
	case that.PaddleOffset < 0 || 2*(that.PaddleOffset+that.PaddleWidth)+that.BallSize >= that.CourtWidth:
		return fmt.Errorf("%w: paddles overlap", ErrInvalidConfig)
	case that.PaddleSpeed < 0 || that.ServeSpeed <= 0 || that.MaxDeflection < 0:
		return fmt.Errorf("%w: speeds out of range", ErrInvalidConfig)
	case that.SpeedUp <= 1:
		return fmt.Errorf("%w: speed-up must be greater than 1, got %v", ErrInvalidConfig, that.SpeedUp)
	case that.TargetScore <= 0:
		return fmt.Errorf("%w: target score must be positive", ErrInvalidConfig)
	}

	return nil
}

// leftPlane is the ball X at which it touches the left paddle's face.
func (that Config) leftPlane() float64 {
	return that.PaddleOffset + that.PaddleWidth
}

// rightPlane is the ball X at which its right edge touches the right paddle's face.
func (that Config) rightPlane() float64 {
	return that.CourtWidth - that.PaddleOffset - that.PaddleWidth - that.BallSize
}

func (that Config) paddleCenter() float64 {
	return (that.CourtHeight - that.PaddleHeight) / 2
}
