// Package detection finds slanted-edge targets in measurement images.
//
// FindSlantedEdges runs a Hough line transform over a Canny edge map,
// restricted to lines within a few tens of degrees of vertical, and returns
// each candidate with its tilt, polarity and a suggested region of interest
// for sfr.Calculate.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Tilt is measured from vertical and is positive when the edge moves right
// going down.
package detection
