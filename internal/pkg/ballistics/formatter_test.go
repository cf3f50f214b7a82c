package ballistics

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatIsIdempotent(t *testing.T) {
	result := Simulate(MedievalCannon())
	require.Equal(t, Format(result), Format(result))
}

func TestFormatReportLayout(t *testing.T) {
	result := Simulate(MedievalCannon())
	report := Format(result)

	require.True(t, strings.HasPrefix(report, "===== RISULTATI SIMULAZIONE ====="))
	require.Contains(t, report, "PARAMETRI: v0=100.0 m/s, angle=45.0°, mass=5.000 kg, Cd=0.470")
	require.Contains(t, report, fmt.Sprintf("  - Gittata:      %.2f m", result.MaxRange))
	require.Contains(t, report, fmt.Sprintf("  - Altezza max:  %.2f m", result.MaxHeight))
	require.Contains(t, report, fmt.Sprintf("  - Tempo volo:   %.2f s", result.FlightTime))
	require.Contains(t, report, "TRAIETTORIA:")
	require.Contains(t, report, "PUNTI CAMPIONATI:")
	require.Contains(t, report, "  t=0.0s: (0.00, 0.00)")
}

func TestFormatStructuredBlock(t *testing.T) {
	result := Simulate(MedievalCannon())
	report := Format(result)

	start := strings.Index(report, TrajectoryDataStart)
	end := strings.Index(report, TrajectoryDataEnd)
	require.NotEqual(t, -1, start)
	require.NotEqual(t, -1, end)
	require.Less(t, start, end)
	require.True(t, strings.HasSuffix(report, TrajectoryDataEnd))

	block := report[start+len(TrajectoryDataStart) : end]
	require.Contains(t, block, "PARAMS:100.00,45.00,5.000,0.470\n")
	require.Contains(t, block, fmt.Sprintf("RESULTS:%.2f,%.2f,%.2f\n",
		result.MaxRange, result.MaxHeight, result.FlightTime))
	require.Contains(t, block, "POINTS:0.00,0.00,0.00;")

	pointsLine := ""
	for _, line := range strings.Split(block, "\n") {
		if strings.HasPrefix(line, "POINTS:") {
			pointsLine = line
		}
	}
	require.NotEmpty(t, pointsLine)
	triples := strings.Split(strings.TrimPrefix(pointsLine, "POINTS:"), ";")
	require.Len(t, triples, len(result.Trajectory))
}

func TestFormatGraphGrid(t *testing.T) {
	report := Format(Simulate(MedievalCannon()))
	lines := strings.Split(report, "\n")

	var graph []string
	for i, line := range lines {
		if line == "TRAIETTORIA:" {
			graph = lines[i+1 : i+21]
			break
		}
	}
	require.Len(t, graph, 20)
	for _, row := range graph {
		require.Len(t, row, 60)
	}
	require.True(t, strings.HasPrefix(graph[0], "Y(m|"))
	require.Contains(t, graph[18], "+")
	require.Contains(t, report, "X(m)")
	require.Contains(t, strings.Join(graph, "\n"), "*")
}
