// Package imaging loads measurement images and prepares them for the MTF
// pipeline in package sfr.
//
// It covers the steps between an encoded file and an sfr.GrayscaleImage:
// cached decoding of local files and azblob:// objects, region-of-interest
// cropping, reduction to a single luminance channel, and a Canny edge map used
// to search for slanted edges.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// Cropped images and grayscale buffers are re-based so their top-left pixel
// is (0, 0).
//
// # Luminance
//
// ToGrayscale produces intensities in [0, 255] with one of four reductions:
// luma (0.3/0.6/0.1 weights), bt601, CIE lightness, or the raw red channel.
// Single-channel sources are passed through unchanged.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Other functions are
// stateless and can be called concurrently.
package imaging
