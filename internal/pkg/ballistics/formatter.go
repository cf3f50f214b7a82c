package ballistics

import (
	"fmt"
	"strings"
)

// Markers delimiting the machine-parsable block inside a report.
const (
	TrajectoryDataStart = "TRAJECTORY_DATA_START"
	TrajectoryDataEnd   = "TRAJECTORY_DATA_END"
)

const (
	graphWidth  = 60
	graphHeight = 20
)

// Format renders a simulation result as the full text report: parameter echo,
// headline numbers, ASCII plot, trimmed sample listing and the structured
// data block. The output is a pure function of the result.
func Format(result Result) string {
	var sb strings.Builder

	sb.WriteString("===== RISULTATI SIMULAZIONE =====\n\n")

	sb.WriteString(fmt.Sprintf("PARAMETRI: v0=%.1f m/s, angle=%.1f°, mass=%.3f kg, Cd=%.3f\n\n",
		result.Params.Velocity, result.Params.Angle, result.Params.Mass, result.Params.DragCoeff))

	sb.WriteString("RISULTATI:\n")
	sb.WriteString(fmt.Sprintf("  - Gittata:      %.2f m\n", result.MaxRange))
	sb.WriteString(fmt.Sprintf("  - Altezza max:  %.2f m\n", result.MaxHeight))
	sb.WriteString(fmt.Sprintf("  - Tempo volo:   %.2f s\n\n", result.FlightTime))

	sb.WriteString("TRAIETTORIA:\n")
	sb.WriteString(asciiGraph(result.Trajectory, result.MaxRange, result.MaxHeight))
	sb.WriteString("\n")

	sb.WriteString("PUNTI CAMPIONATI:\n")
	for i, p := range result.Trajectory {
		if i < 10 || i >= len(result.Trajectory)-3 || i%5 == 0 {
			sb.WriteString(fmt.Sprintf("  t=%.1fs: (%.2f, %.2f)\n", p.T, p.X, p.Y))
		} else if i == 10 {
			sb.WriteString("  ...\n")
		}
	}

	sb.WriteString("\n==================================\n")

	sb.WriteString(TrajectoryDataStart + "\n")
	sb.WriteString(fmt.Sprintf("PARAMS:%.2f,%.2f,%.3f,%.3f\n",
		result.Params.Velocity, result.Params.Angle, result.Params.Mass, result.Params.DragCoeff))
	sb.WriteString(fmt.Sprintf("RESULTS:%.2f,%.2f,%.2f\n",
		result.MaxRange, result.MaxHeight, result.FlightTime))
	sb.WriteString("POINTS:")
	for i, p := range result.Trajectory {
		if i > 0 {
			sb.WriteString(";")
		}
		sb.WriteString(fmt.Sprintf("%.2f,%.2f,%.2f", p.X, p.Y, p.T))
	}
	sb.WriteString("\n")
	sb.WriteString(TrajectoryDataEnd)

	return sb.String()
}

// asciiGraph draws the trajectory on a fixed character grid with axes.
func asciiGraph(trajectory []Point, maxRange, maxHeight float64) string {
	grid := make([][]byte, graphHeight)
	for i := range grid {
		grid[i] = []byte(strings.Repeat(" ", graphWidth))
	}

	xScale, yScale := 1.0, 1.0
	if maxRange > 0 {
		xScale = float64(graphWidth-5) / maxRange
	}
	if maxHeight > 0 {
		yScale = float64(graphHeight-3) / maxHeight
	}

	// Axes.
	for i := 0; i < graphHeight-1; i++ {
		grid[i][3] = '|'
	}
	for j := 3; j < graphWidth; j++ {
		grid[graphHeight-2][j] = '-'
	}
	grid[graphHeight-2][3] = '+'

	// Sample markers.
	for _, p := range trajectory {
		gx := 4 + int(p.X*xScale)
		gy := graphHeight - 3 - int(p.Y*yScale)
		if gx >= 4 && gx < graphWidth && gy >= 0 && gy < graphHeight-2 {
			grid[gy][gx] = '*'
		}
	}

	// Y axis peak label.
	maxYLabel := fmt.Sprintf("%.0f", maxHeight)
	if len(maxYLabel) <= 3 {
		copy(grid[1], maxYLabel)
	}

	// X axis extent label.
	maxXLabel := fmt.Sprintf("%.0fm", maxRange)
	xLabelPos := graphWidth - len(maxXLabel)
	if xLabelPos > graphWidth-5 {
		xLabelPos = graphWidth - 5
	}
	for i := 0; i < len(maxXLabel) && xLabelPos+i < graphWidth; i++ {
		grid[graphHeight-1][xLabelPos+i] = maxXLabel[i]
	}

	grid[graphHeight-1][3] = '0'
	copy(grid[0], "Y(m")
	copy(grid[graphHeight-1][5:], "X(m)")

	var sb strings.Builder
	for _, row := range grid {
		sb.Write(row)
		sb.WriteString("\n")
	}
	return sb.String()
}
