package fieldcode

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dlclark/regexp2"
)

// EMU (English Metric Units) per unit of length
const (
	EmuPerPixel      = 9525
	EmuPerCentimeter = 360000
	EmuPerInch       = 914400
	EmuPerPoint      = 12700
	EmuPerMillimeter = 36000
)

// rotationUnitsPerDegree is the DrawingML angle resolution
const rotationUnitsPerDegree = 60000

// pictureArgumentExpr matches size and rotation arguments such as w:4cm, h:200 or r:90
const pictureArgumentExpr = `(?<key>[whr]):(?<value>\d+)(?<unit>px|cm|in|pt|mm)?`

var pictureArgumentRegexp = func() *regexp2.Regexp {
	re := regexp2.MustCompile(pictureArgumentExpr, regexp2.None)
	re.MatchTimeout = 500 * time.Millisecond
	return re
}()

// Rotation is a clockwise picture rotation in degrees
type Rotation float64

// RotationFromUnits converts 60000ths of a degree to a Rotation
func RotationFromUnits(units int64) Rotation {
	return Rotation(float64(units) / rotationUnitsPerDegree)
}

// Units returns the rotation in 60000ths of a degree, as DrawingML stores it
func (r Rotation) Units() int64 {
	return int64(math.Round(float64(r) * rotationUnitsPerDegree))
}

// AddUnits returns r rotated further by units 60000ths of a degree
func (r Rotation) AddUnits(units int64) Rotation {
	return RotationFromUnits(r.Units() + units)
}

// Extent is the displayed size of a picture in EMU plus its rotation
type Extent struct {
	Cx       int64
	Cy       int64
	Rotation Rotation
}

func (e Extent) String() string {
	return fmt.Sprintf("%dx%d EMU, %g°", e.Cx, e.Cy, float64(e.Rotation))
}

// PixelsToEmu converts pixels to EMU
func PixelsToEmu(pixels int) int64 {
	return int64(pixels) * EmuPerPixel
}

// LengthToEmu converts a length in the given unit to EMU. An empty unit means pixels.
func LengthToEmu(value int, unit string) (int64, error) {
	v := int64(value)
	switch unit {
	case "", "px":
		return v * EmuPerPixel, nil
	case "cm":
		return v * EmuPerCentimeter, nil
	case "in":
		return v * EmuPerInch, nil
	case "pt":
		return v * EmuPerPoint, nil
	case "mm":
		return v * EmuPerMillimeter, nil
	default:
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
}

// TransformSize computes the displayed extent of a picture of the given pixel
// size from formatter arguments like "w:4cm", "h:120" or "r:90".
//
// With no size argument the picture keeps its pixel size. With one dimension
// the other follows the picture's aspect ratio. With both, the picture is fit
// inside the requested box without distortion. An argument that does not look
// like a size or rotation at all stops processing and yields the pixel size.
func TransformSize(pixelWidth, pixelHeight int, args []string) (Extent, error) {
	natural := Extent{Cx: PixelsToEmu(pixelWidth), Cy: PixelsToEmu(pixelHeight)}
	var cx, cy int64 = -1, -1
	var rotation Rotation

	for _, arg := range args {
		m, err := pictureArgumentRegexp.FindStringMatch(arg)
		if err != nil {
			return Extent{}, &PictureArgumentError{Argument: arg, Cause: err}
		}
		if m == nil {
			natural.Rotation = rotation
			return natural, nil
		}

		for ; m != nil; m, err = pictureArgumentRegexp.FindNextMatch(m) {
			value, convErr := strconv.Atoi(group(m, "value"))
			if convErr != nil {
				return Extent{}, &PictureArgumentError{Argument: arg, Cause: convErr}
			}
			unit := group(m, "unit")

			switch group(m, "key") {
			case "w":
				if cx, convErr = LengthToEmu(value, unit); convErr != nil {
					return Extent{}, &PictureArgumentError{Argument: arg, Cause: convErr}
				}
			case "h":
				if cy, convErr = LengthToEmu(value, unit); convErr != nil {
					return Extent{}, &PictureArgumentError{Argument: arg, Cause: convErr}
				}
			case "r":
				rotation = Rotation(value)
			}
		}
		if err != nil {
			return Extent{}, &PictureArgumentError{Argument: arg, Cause: err}
		}
	}

	switch {
	case cx == -1 && cy == -1:
		natural.Rotation = rotation
		return natural, nil
	case pixelWidth <= 0 || pixelHeight <= 0:
		// no aspect ratio to keep
		if cx == -1 {
			cx = cy
		}
		if cy == -1 {
			cy = cx
		}
	case cx == -1:
		cx = int64(float64(cy) * (float64(pixelWidth) / float64(pixelHeight)))
	case cy == -1:
		cy = int64(float64(cx) * (float64(pixelHeight) / float64(pixelWidth)))
	default:
		aspect := float64(pixelWidth) / float64(pixelHeight)
		if aspect > float64(cx)/float64(cy) {
			cy = int64(float64(cx) / aspect)
		} else {
			cx = int64(float64(cy) * aspect)
		}
	}

	return Extent{Cx: cx, Cy: cy, Rotation: rotation}, nil
}
