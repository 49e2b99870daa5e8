package paddle

// Rand is the randomness the engine consumes; *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// TickResult reports what happened during one Tick.
type TickResult struct {
	WallBounce bool `json:"wall_bounce,omitempty"`
	PaddleHit  Side `json:"paddle_hit,omitempty"`
	Scorer     Side `json:"scorer,omitempty"`
	Finished   bool `json:"finished,omitempty"`
}

// Engine advances one paddle match a fixed step at a time.
// It is not safe for concurrent use; callers serialize access.
type Engine struct {
	cfg   Config
	rnd   Rand
	world World
}

func New(cfg Config, rnd Rand) *Engine {
	engine := &Engine{cfg: cfg, rnd: rnd}
	engine.world = World{
		Phase: PhaseWaiting,
		Left:  Paddle{Y: cfg.paddleCenter()},
		Right: Paddle{Y: cfg.paddleCenter()},
		Ball:  Ball{X: cfg.ballCenterX(), Y: cfg.ballCenterY()},
	}

	return engine
}

func (that Config) ballCenterX() float64 {
	return (that.CourtWidth - that.BallSize) / 2
}

func (that Config) ballCenterY() float64 {
	return (that.CourtHeight - that.BallSize) / 2
}

// Start - begins a new match from Waiting or Finished. Returns false when ignored.
func (that *Engine) Start() bool {
	if that.world.Phase != PhaseWaiting && that.world.Phase != PhaseFinished {
		return false
	}

	direction := SideLeft
	if that.rnd.IntN(2) == 0 {
		direction = SideRight
	}

	that.world = World{
		Phase: PhasePlaying,
		Left:  Paddle{Y: that.cfg.paddleCenter()},
		Right: Paddle{Y: that.cfg.paddleCenter()},
	}
	that.serve(direction)

	return true
}

func (that *Engine) Pause() bool {
	if that.world.Phase != PhasePlaying {
		return false
	}

	that.world.Phase = PhasePaused
	return true
}

func (that *Engine) Resume() bool {
	if that.world.Phase != PhasePaused {
		return false
	}

	that.world.Phase = PhasePlaying
	return true
}

func (that *Engine) SetInput(side Side, input Input) {
	switch side {
	case SideLeft:
		that.world.Left.Input = input
	case SideRight:
		that.world.Right.Input = input
	}
}

// Tick - advances the simulation one step. Outside PhasePlaying nothing changes.
func (that *Engine) Tick() TickResult {
	var result TickResult
	if that.world.Phase != PhasePlaying {
		return result
	}

	that.movePaddle(&that.world.Left)
	that.movePaddle(&that.world.Right)

	ball := &that.world.Ball
	prevX := ball.X
	ball.X += ball.VX
	ball.Y += ball.VY

	result.WallBounce = that.bounceWalls(ball)
	result.PaddleHit = that.bouncePaddles(ball, prevX)

	if scorer := that.scorer(ball); scorer != SideNone {
		result.Scorer = scorer
		result.Finished = that.awardPoint(scorer)
	}

	return result
}

func (that *Engine) movePaddle(paddle *Paddle) {
	if paddle.Input.Up {
		paddle.Y -= that.cfg.PaddleSpeed
	}
	if paddle.Input.Down {
		paddle.Y += that.cfg.PaddleSpeed
	}

	paddle.Y = clamp(paddle.Y, 0, that.cfg.CourtHeight-that.cfg.PaddleHeight)
}

func (that *Engine) bounceWalls(ball *Ball) bool {
	bottom := that.cfg.CourtHeight - that.cfg.BallSize

	switch {
	case ball.Y < 0:
		ball.Y = 0
	case ball.Y > bottom:
		ball.Y = bottom
	default:
		return false
	}

	ball.VY = -ball.VY
	return true
}

// bouncePaddles tests the segment the ball travelled this tick against each collision plane,
// so a fast ball cannot skip over a paddle face.
func (that *Engine) bouncePaddles(ball *Ball, prevX float64) Side {
	left, right := that.cfg.leftPlane(), that.cfg.rightPlane()

	switch {
	case ball.VX < 0 && prevX >= left && ball.X <= left && that.overlaps(ball, that.world.Left):
		ball.X = left
		that.deflect(ball, that.world.Left)
		return SideLeft
	case ball.VX > 0 && prevX <= right && ball.X >= right && that.overlaps(ball, that.world.Right):
		ball.X = right
		that.deflect(ball, that.world.Right)
		return SideRight
	}

	return SideNone
}

func (that *Engine) overlaps(ball *Ball, paddle Paddle) bool {
	return ball.Y+that.cfg.BallSize >= paddle.Y && ball.Y <= paddle.Y+that.cfg.PaddleHeight
}

// deflect reverses and speeds up the ball; the vertical speed follows where it struck
// the paddle: top edge -MaxDeflection, center 0, bottom edge +MaxDeflection.
func (that *Engine) deflect(ball *Ball, paddle Paddle) {
	ball.VX = -ball.VX * that.cfg.SpeedUp

	hit := (ball.Y + that.cfg.BallSize/2 - paddle.Y) / that.cfg.PaddleHeight
	hit = clamp(hit, 0, 1)
	ball.VY = (hit - 0.5) * 2 * that.cfg.MaxDeflection
}

// scorer returns the side that scored once the ball is fully outside the court.
func (that *Engine) scorer(ball *Ball) Side {
	switch {
	case ball.X+that.cfg.BallSize < 0:
		return SideRight
	case ball.X > that.cfg.CourtWidth:
		return SideLeft
	default:
		return SideNone
	}
}

// awardPoint reports whether the point ended the match.
func (that *Engine) awardPoint(scorer Side) bool {
	points := &that.world.Score.Left
	if scorer == SideRight {
		points = &that.world.Score.Right
	}
	*points++

	if *points >= that.cfg.TargetScore {
		that.world.Phase = PhaseFinished
		that.world.Winner = scorer
		return true
	}

	that.serve(scorer.Opponent())
	return false
}

// serve puts the ball at center court heading toward side.
func (that *Engine) serve(toward Side) {
	direction := 1.0
	if toward == SideLeft {
		direction = -1
	}

	that.world.Ball = Ball{
		X:  that.cfg.ballCenterX(),
		Y:  that.cfg.ballCenterY(),
		VX: that.cfg.ServeSpeed * direction,
		VY: that.cfg.ServeSpeed * (that.rnd.Float64() - 0.5),
	}
}

func (that *Engine) World() World {
	return that.world
}

func (that *Engine) Phase() Phase {
	return that.world.Phase
}

func (that *Engine) Config() Config {
	return that.cfg
}

// Clone - a copy of the match state sharing the random source.
func (that *Engine) Clone() *Engine {
	clone := *that
	return &clone
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
