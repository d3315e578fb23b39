package detection

import (
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/edge-mtf-mcp/internal/imaging"
	"github.com/ironsheep/edge-mtf-mcp/internal/sfr"
)

const (
	// thetaStep is the Hough angle resolution in degrees.
	thetaStep = 0.25
	// lineTolerance is the distance in pixels within which an edge pixel
	// supports a line.
	lineTolerance = 1.5
	// roiPadding is the number of columns added on each side of an edge when
	// suggesting a region of interest.
	roiPadding = 16
	// maxEdges caps the number of candidates returned.
	maxEdges = 20
)

// Point is a pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SlantedEdge is a near-vertical edge candidate.
type SlantedEdge struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
	// Length is the distance between Start and End in pixels.
	Length float64 `json:"length"`
	// TiltDegrees is the angle from vertical; positive when the edge moves
	// right going down, matching the sign of sfr.EdgeModel.Slope.
	TiltDegrees float64 `json:"tilt_degrees"`
	// Votes is the number of edge pixels supporting the line.
	Votes int `json:"votes"`
	// BrightLeft is true when the left side of the edge is brighter.
	BrightLeft bool `json:"bright_left"`
	// MeetsMinAngle is true when |TiltDegrees| is at least sfr.MinEdgeAngle.
	MeetsMinAngle bool `json:"meets_min_angle"`
	// ROI is a suggested region of interest around the edge.
	ROI imaging.Region `json:"roi"`
}

// EdgesResult contains the edge candidates sorted by votes (strongest first).
type EdgesResult struct {
	Edges []SlantedEdge `json:"edges"`
	Count int           `json:"count"`
}

// FindOptions controls FindSlantedEdges.
type FindOptions struct {
	// MinLength is the shortest edge, in pixels, that is reported.
	MinLength int
	// MaxTiltDegrees bounds the angle from vertical that is searched.
	MaxTiltDegrees float64
	// ThresholdLow and ThresholdHigh are the Canny hysteresis thresholds in
	// intensity units.
	ThresholdLow  float64
	ThresholdHigh float64
}

// DefaultFindOptions returns settings suited to 8-bit test chart images.
func DefaultFindOptions() FindOptions {
	return FindOptions{
		MinLength:      20,
		MaxTiltDegrees: 20,
		ThresholdLow:   20,
		ThresholdHigh:  50,
	}
}

// FindSlantedEdges locates near-vertical straight edges in img using a Hough
// transform restricted to angles within MaxTiltDegrees of vertical.
//
// Only edge pixels whose gradient points across the edge (roughly horizontal)
// vote, so horizontal edges and texture do not produce candidates. Each pixel
// supports at most one returned edge.
func FindSlantedEdges(img *sfr.GrayscaleImage, opts FindOptions) (*EdgesResult, error) {
	if img == nil {
		return nil, fmt.Errorf("image is nil")
	}
	if opts.MinLength < 2 {
		return nil, fmt.Errorf("min length must be >= 2 (got %d)", opts.MinLength)
	}
	if !(opts.MaxTiltDegrees > 0 && opts.MaxTiltDegrees < 45) {
		return nil, fmt.Errorf("max tilt must be in (0, 45) degrees (got %v)", opts.MaxTiltDegrees)
	}

	width, height := img.Width(), img.Height()
	edges := imaging.DetectEdges(img, opts.ThresholdLow, opts.ThresholdHigh)

	// Candidate pixels: edges whose gradient is within the search cone of
	// horizontal.
	cone := (opts.MaxTiltDegrees + 10) * math.Pi / 180
	points := make([]Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges.IsEdge(x, y) {
				continue
			}
			a := math.Abs(edges.GradientAngle(x, y))
			if a <= cone || a >= math.Pi-cone {
				points = append(points, Point{X: x, Y: y})
			}
		}
	}

	// Hough transform parameters
	numAngles := int(2*opts.MaxTiltDegrees/thetaStep) + 1
	thetas := make([]float64, numAngles)
	cosT := make([]float64, numAngles)
	sinT := make([]float64, numAngles)
	for i := range thetas {
		thetas[i] = -opts.MaxTiltDegrees + float64(i)*thetaStep
		rad := thetas[i] * math.Pi / 180
		cosT[i] = math.Cos(rad)
		sinT[i] = math.Sin(rad)
	}
	maxDist := int(math.Sqrt(float64(width*width+height*height))) + 1
	accumulator := make([][]int, maxDist*2)
	for i := range accumulator {
		accumulator[i] = make([]int, numAngles)
	}

	// Vote in Hough space
	for _, p := range points {
		for ti := 0; ti < numAngles; ti++ {
			rho := float64(p.X)*cosT[ti] + float64(p.Y)*sinT[ti]
			rhoIdx := int(math.Round(rho)) + maxDist
			if rhoIdx >= 0 && rhoIdx < maxDist*2 {
				accumulator[rhoIdx][ti]++
			}
		}
	}

	// Find peaks in accumulator
	type peak struct {
		rho   int
		theta int
		votes int
	}
	peaks := make([]peak, 0)
	threshold := max(opts.MinLength/2, 2)

	for rhoIdx := 0; rhoIdx < maxDist*2; rhoIdx++ {
		for ti := 0; ti < numAngles; ti++ {
			votes := accumulator[rhoIdx][ti]
			if votes < threshold {
				continue
			}
			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -4; dt <= 4 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr, nt := rhoIdx+dr, ti+dt
					if nr >= 0 && nr < maxDist*2 && nt >= 0 && nt < numAngles {
						if accumulator[nr][nt] > votes {
							isMax = false
						}
					}
				}
			}
			if isMax {
				peaks = append(peaks, peak{rho: rhoIdx - maxDist, theta: ti, votes: votes})
			}
		}
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})

	used := make([]bool, len(points))
	result := make([]SlantedEdge, 0)

	for _, pk := range peaks {
		if len(result) >= maxEdges {
			break
		}

		cosA, sinA := cosT[pk.theta], sinT[pk.theta]
		rho := float64(pk.rho)

		// Supporting points not already claimed by a stronger edge
		support := make([]int, 0)
		for i, p := range points {
			if used[i] {
				continue
			}
			if math.Abs(float64(p.X)*cosA+float64(p.Y)*sinA-rho) < lineTolerance {
				support = append(support, i)
			}
		}
		if len(support) < threshold {
			continue
		}

		start, end := points[support[0]], points[support[0]]
		for _, i := range support {
			p := points[i]
			if p.Y < start.Y {
				start = p
			}
			if p.Y > end.Y {
				end = p
			}
		}

		dx := float64(end.X - start.X)
		dy := float64(end.Y - start.Y)
		length := math.Sqrt(dx*dx + dy*dy)
		if length < float64(opts.MinLength) {
			continue
		}

		for _, i := range support {
			used[i] = true
		}

		tilt := -thetas[pk.theta]
		result = append(result, SlantedEdge{
			Start:         start,
			End:           end,
			Length:        math.Round(length*10) / 10,
			TiltDegrees:   tilt,
			Votes:         len(support),
			BrightLeft:    brightLeft(edges, points, support),
			MeetsMinAngle: math.Abs(tilt) >= sfr.MinEdgeAngle,
			ROI:           suggestROI(start, end, width, height),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Votes > result[j].Votes
	})

	return &EdgesResult{
		Edges: result,
		Count: len(result),
	}, nil
}

// brightLeft reports whether most supporting pixels have a gradient pointing
// left (intensity falling left to right).
func brightLeft(edges *imaging.EdgeMap, points []Point, support []int) bool {
	left := 0
	for _, i := range support {
		if math.Abs(edges.GradientAngle(points[i].X, points[i].Y)) > math.Pi/2 {
			left++
		}
	}
	return 2*left > len(support)
}

// suggestROI spans the edge's rows and pads its columns by roiPadding so the
// contrast check sees flat areas on both sides.
func suggestROI(start, end Point, width, height int) imaging.Region {
	x1 := min(start.X, end.X) - roiPadding
	x2 := max(start.X, end.X) + roiPadding + 1
	r := imaging.Region{
		X1: max(x1, 0),
		Y1: start.Y,
		X2: min(x2, width),
		Y2: end.Y + 1,
	}
	if r.Y2-r.Y1 < sfr.MinHeight {
		r.Y1 = max(0, r.Y2-sfr.MinHeight)
		r.Y2 = min(height, r.Y1+sfr.MinHeight)
	}
	return r
}
