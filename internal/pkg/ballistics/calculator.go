package ballistics

import "math"

// Physical and integration constants.
const (
	gravity        = 9.81  // m/s²
	airDensity     = 1.225 // kg/m³ at sea level
	frontalArea    = 0.01  // m²
	timeStep       = 0.01  // s
	sampleInterval = 0.1   // s between recorded samples
	maxSimTime     = 1000  // s, runaway guard
)

// Point is one trajectory sample.
type Point struct {
	X float64 // horizontal distance, m
	Y float64 // height, m
	T float64 // elapsed time, s
}

// Result is the outcome of one simulation run.
type Result struct {
	MaxRange   float64
	MaxHeight  float64
	FlightTime float64
	Trajectory []Point
	Params     Params
}

// Simulate integrates the projectile's 2D motion with a fixed time step.
// Drag opposes the velocity with magnitude 0.5*rho*Cd*A*v². The run ends
// when the projectile returns to the ground or after maxSimTime.
func Simulate(p Params) Result {
	angleRad := p.Angle * math.Pi / 180
	vx := p.Velocity * math.Cos(angleRad)
	vy := p.Velocity * math.Sin(angleRad)

	var x, y, t, maxHeight, lastSampleTime float64
	trajectory := []Point{{X: 0, Y: 0, T: 0}}

	for y >= 0 {
		speed := math.Hypot(vx, vy)
		if speed > 0 {
			dragForce := 0.5 * airDensity * p.DragCoeff * frontalArea * speed * speed
			ax := -(dragForce * vx / speed) / p.Mass
			ay := -gravity - (dragForce*vy/speed)/p.Mass
			vx += ax * timeStep
			vy += ay * timeStep
		} else {
			vy -= gravity * timeStep
		}

		x += vx * timeStep
		y += vy * timeStep
		t += timeStep

		if y > maxHeight {
			maxHeight = y
		}
		if t-lastSampleTime >= sampleInterval {
			trajectory = append(trajectory, Point{X: x, Y: math.Max(0, y), T: t})
			lastSampleTime = t
		}
		if t > maxSimTime {
			break
		}
	}

	// Close the trajectory at ground level unless the impact step was sampled.
	if last := trajectory[len(trajectory)-1]; last.Y != 0 || last.T < t-timeStep {
		trajectory = append(trajectory, Point{X: x, Y: 0, T: t})
	}

	return Result{
		MaxRange:   x,
		MaxHeight:  maxHeight,
		FlightTime: t,
		Trajectory: trajectory,
		Params:     p,
	}
}
