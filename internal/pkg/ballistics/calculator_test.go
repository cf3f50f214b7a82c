package ballistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimulateTrajectoryShape(t *testing.T) {
	result := Simulate(MedievalCannon())

	require.NotEmpty(t, result.Trajectory)
	first := result.Trajectory[0]
	require.Zero(t, first.X)
	require.Zero(t, first.Y)
	require.Zero(t, first.T)

	for i := 1; i < len(result.Trajectory); i++ {
		require.GreaterOrEqual(t, result.Trajectory[i].T, result.Trajectory[i-1].T,
			"sample timestamps must not decrease")
		require.GreaterOrEqual(t, result.Trajectory[i].Y, 0.0,
			"recorded heights are clamped to ground level")
	}

	last := result.Trajectory[len(result.Trajectory)-1]
	require.Zero(t, last.Y, "trajectory must end at ground level")
	require.InDelta(t, result.FlightTime, last.T, 0.2)
	require.Positive(t, result.MaxRange)
	require.Positive(t, result.MaxHeight)
	require.Positive(t, result.FlightTime)
}

func TestSimulateDragShortensRange(t *testing.T) {
	p := MedievalCannon() // 100 m/s at 45°
	result := Simulate(p)

	theoretical := p.Velocity * p.Velocity * math.Sin(2*p.Angle*math.Pi/180) / 9.81
	require.InDelta(t, 1019.37, theoretical, 0.01)
	require.Less(t, result.MaxRange, theoretical)
}

func TestSimulateHigherDragFliesShorter(t *testing.T) {
	light := Simulate(Params{Velocity: 100, Angle: 45, Mass: 5, DragCoeff: 0.1})
	heavy := Simulate(Params{Velocity: 100, Angle: 45, Mass: 5, DragCoeff: 1.5})
	require.Less(t, heavy.MaxRange, light.MaxRange)
	require.Less(t, heavy.MaxHeight, light.MaxHeight)
}

func TestSimulateIsDeterministic(t *testing.T) {
	a := Simulate(ParabolicThrow())
	b := Simulate(ParabolicThrow())
	require.Equal(t, a, b)
}

func TestSimulateFlatLaunchEndsImmediately(t *testing.T) {
	result := Simulate(Params{Velocity: 50, Angle: 0, Mass: 1, DragCoeff: 0.47})
	require.Less(t, result.FlightTime, 1.0)
	require.Zero(t, result.Trajectory[len(result.Trajectory)-1].Y)
}

func TestSimulateRespectsRunawayGuard(t *testing.T) {
	result := Simulate(Params{Velocity: 10000, Angle: 90, Mass: 1000, DragCoeff: 0.001})
	require.LessOrEqual(t, result.FlightTime, 1000.0+1)
}
