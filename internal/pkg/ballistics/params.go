// Package ballistics simulates projectile flight under gravity and quadratic
// drag and renders the results.
package ballistics

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Parameter bounds accepted by the simulation.
const (
	MaxVelocity  = 10000.0
	MaxAngle     = 90.0
	MaxMass      = 1000.0
	MaxDragCoeff = 2.0
)

// Params are the launch parameters of a projectile.
type Params struct {
	Velocity  float64 // initial speed, m/s
	Angle     float64 // launch angle, degrees
	Mass      float64 // kg
	DragCoeff float64 // dimensionless
}

// Validate checks the parameters against the accepted bounds. The returned
// error joins every violated constraint in protocol wording.
func (p Params) Validate() error {
	var violations []string
	if p.Velocity <= 0 {
		violations = append(violations, "velocity deve essere > 0")
	}
	if p.Velocity > MaxVelocity {
		violations = append(violations, "velocity troppo alta (max 10000 m/s)")
	}
	if p.Angle < 0 || p.Angle > MaxAngle {
		violations = append(violations, "angle deve essere tra 0 e 90")
	}
	if p.Mass <= 0 {
		violations = append(violations, "mass deve essere > 0")
	}
	if p.Mass > MaxMass {
		violations = append(violations, "mass troppo alta (max 1000 kg)")
	}
	if p.DragCoeff <= 0 {
		violations = append(violations, "dragCoeff deve essere > 0")
	}
	if p.DragCoeff > MaxDragCoeff {
		violations = append(violations, "dragCoeff troppo alto (max 2)")
	}
	if len(violations) > 0 {
		return errors.New(strings.Join(violations, "; "))
	}
	return nil
}

// ProtocolString renders the parameters as a SIMULATE command.
func (p Params) ProtocolString() string {
	return fmt.Sprintf("SIMULATE %.4f %.4f %.4f %.4f", p.Velocity, p.Angle, p.Mass, p.DragCoeff)
}

func (p Params) String() string {
	return fmt.Sprintf("ProjectileParams[v=%.2f m/s, angle=%.1f°, mass=%.3f kg, Cd=%.3f]",
		p.Velocity, p.Angle, p.Mass, p.DragCoeff)
}

// Preset parameter sets.

func MedievalCannon() Params {
	return Params{Velocity: 100, Angle: 45, Mass: 5, DragCoeff: 0.47}
}

func ModernBullet() Params {
	return Params{Velocity: 800, Angle: 30, Mass: 0.15, DragCoeff: 0.295}
}

func ParabolicThrow() Params {
	return Params{Velocity: 20, Angle: 60, Mass: 0.5, DragCoeff: 0.47}
}
