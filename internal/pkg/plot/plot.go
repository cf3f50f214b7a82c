// Package plot parses the structured trajectory block out of a simulation
// reply for downstream plotting front-ends. It tolerates blocks truncated by
// partial fragment reassembly.
package plot

import (
	"strconv"
	"strings"

	"ballistic/internal/pkg/ballistics"

	"github.com/pkg/errors"
)

// ErrNoData indicates the reply carries no structured trajectory block.
var ErrNoData = errors.New("no trajectory data block")

// Trajectory is the parsed content of a TRAJECTORY_DATA block.
type Trajectory struct {
	Params     ballistics.Params
	MaxRange   float64
	MaxHeight  float64
	FlightTime float64
	Points     []ballistics.Point
}

// Parse extracts the trajectory block from a full reply. Malformed point
// triples are dropped, and a truncated block yields whatever parsed cleanly.
func Parse(reply string) (*Trajectory, error) {
	start := strings.Index(reply, ballistics.TrajectoryDataStart)
	if start == -1 {
		return nil, ErrNoData
	}
	block := reply[start+len(ballistics.TrajectoryDataStart):]
	if end := strings.Index(block, ballistics.TrajectoryDataEnd); end != -1 {
		block = block[:end]
	}

	t := &Trajectory{}
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "PARAMS:"):
			fields := parseFloats(line[len("PARAMS:"):])
			if len(fields) == 4 {
				t.Params = ballistics.Params{
					Velocity:  fields[0],
					Angle:     fields[1],
					Mass:      fields[2],
					DragCoeff: fields[3],
				}
			}
		case strings.HasPrefix(line, "RESULTS:"):
			fields := parseFloats(line[len("RESULTS:"):])
			if len(fields) == 3 {
				t.MaxRange, t.MaxHeight, t.FlightTime = fields[0], fields[1], fields[2]
			}
		case strings.HasPrefix(line, "POINTS:"):
			for _, triple := range strings.Split(line[len("POINTS:"):], ";") {
				fields := parseFloats(triple)
				if len(fields) != 3 {
					continue
				}
				t.Points = append(t.Points, ballistics.Point{X: fields[0], Y: fields[1], T: fields[2]})
			}
		}
	}
	return t, nil
}

func parseFloats(csv string) []float64 {
	parts := strings.Split(csv, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil
		}
		values = append(values, v)
	}
	return values
}
