package export

import (
	"encoding/json"
	"io"

	"godeviate/domain/kpi"
	"godeviate/internal/pipeline"
)

// Point is one scatter point with its hover data
type Point struct {
	X              float64            `json:"x"`
	Y              float64            `json:"y"`
	EmployeeID     string             `json:"id"`
	Position       string             `json:"position"`
	Company        string             `json:"company"`
	Classification kpi.Classification `json:"classification"`
}

// Group is the JSON form of a group summary
type Group struct {
	pipeline.GroupSummary
	Mean   kpi.Value `json:"mean"`
	StdDev kpi.Value `json:"std"`
}

// Payload is the JSON document served by the API and the CLI
type Payload struct {
	RunID       string                     `json:"run_id"`
	Source      string                     `json:"source"`
	Level       kpi.Level                  `json:"level"`
	Threshold   float64                    `json:"threshold"`
	InputRows   int                        `json:"input_rows"`
	DroppedKeys int                        `json:"dropped_keys"`
	Coercion    pipeline.CoercionStats     `json:"coercion"`
	Counts      map[kpi.Classification]int `json:"counts"`
	Rows        []Row                      `json:"rows"`
	Groups      []Group                    `json:"groups"`
	Points      []Point                    `json:"points"`
}

// NewPayload builds the JSON view of a result
func NewPayload(res *pipeline.Result) Payload {
	groups := make([]Group, len(res.Groups))
	for i, g := range res.Groups {
		groups[i] = Group{GroupSummary: g, Mean: g.Mean, StdDev: g.StdDev}
	}
	return Payload{
		RunID:       res.RunID.String(),
		Source:      res.Source,
		Level:       res.Level,
		Threshold:   res.Threshold,
		InputRows:   res.InputRows,
		DroppedKeys: res.DroppedKeys,
		Coercion:    res.Coercion,
		Counts:      res.Counts,
		Rows:        Rows(res.Rows),
		Groups:      groups,
		Points:      ScatterPoints(res.Rows),
	}
}

// ScatterPoints places every row at (group mean, final score).
// Rows without a defined group mean have no position and are skipped.
func ScatterPoints(rows []kpi.Deviation) []Point {
	points := make([]Point, 0, len(rows))
	for _, r := range rows {
		x, ok := r.GroupMean.Get()
		if !ok {
			continue
		}
		points = append(points, Point{
			X:              x,
			Y:              r.FinalScore,
			EmployeeID:     r.EmployeeID,
			Position:       r.Position,
			Company:        r.Company,
			Classification: r.Classification,
		})
	}
	return points
}

// WriteJSON encodes the payload of res
func WriteJSON(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewPayload(res))
}
