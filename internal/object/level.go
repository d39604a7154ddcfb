package object

// LevelRules is the difficulty step applied between levels.
type LevelRules struct {
	PaddleWidthDivisor float64
	PaddleSpeedStep    float64
	BallSpeedStep      float64
}

// IncreaseLevel makes the next level harder: a narrower, faster paddle and a faster ball.
func IncreaseLevel(ball *Ball, paddle *Paddle, r LevelRules) {
	paddle.ReduceWidth(r.PaddleWidthDivisor)
	paddle.IncreaseSpeed(r.PaddleSpeedStep)
	ball.IncreaseSpeed(r.BallSpeedStep)
}
