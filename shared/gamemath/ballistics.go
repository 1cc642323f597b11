package gamemath

// LaunchVelocity returns the initial velocity of a projectile fired along the
// unit aim direction.
func LaunchVelocity(aimX, aimY, speed float64) (velX, velY float64) {
	return aimX * speed, aimY * speed
}

// StepBallistic advances a projectile by dt under downward gravity (screen
// space, +Y is down) and returns its new position and velocity.
func StepBallistic(x, y, velX, velY, gravity, dt float64) (nx, ny, nvx, nvy float64) {
	nvx = velX
	nvy = velY + gravity*dt
	return x + nvx*dt, y + nvy*dt, nvx, nvy
}
