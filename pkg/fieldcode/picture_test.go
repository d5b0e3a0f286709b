package fieldcode

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTransformSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		args          []string
		want          Extent
	}{
		{
			name:  "no arguments keeps pixel size",
			width: 100, height: 50,
			want: Extent{Cx: 952500, Cy: 476250},
		},
		{
			name:  "width keeps aspect ratio",
			width: 100, height: 50,
			args: []string{"w:2cm"},
			want: Extent{Cx: 720000, Cy: 360000},
		},
		{
			name:  "height keeps aspect ratio",
			width: 100, height: 50,
			args: []string{"h:1in"},
			want: Extent{Cx: 1828800, Cy: 914400},
		},
		{
			name:  "both dimensions fit inside the box",
			width: 100, height: 50,
			args: []string{"w:10cm", "h:10cm"},
			want: Extent{Cx: 3600000, Cy: 1800000},
		},
		{
			name:  "tall picture in a wide box",
			width: 50, height: 100,
			args: []string{"w:10cm", "h:10cm"},
			want: Extent{Cx: 1800000, Cy: 3600000},
		},
		{
			name:  "missing unit means pixels",
			width: 100, height: 50,
			args: []string{"w:200"},
			want: Extent{Cx: 1905000, Cy: 952500},
		},
		{
			name:  "points and millimeters",
			width: 10, height: 10,
			args: []string{"w:72pt h:30mm"},
			want: Extent{Cx: 914400, Cy: 914400},
		},
		{
			name:  "rotation only",
			width: 100, height: 50,
			args: []string{"r:90"},
			want: Extent{Cx: 952500, Cy: 476250, Rotation: 90},
		},
		{
			name:  "several settings in one argument",
			width: 100, height: 50,
			args: []string{"w:100px,r:180"},
			want: Extent{Cx: 952500, Cy: 476250, Rotation: 180},
		},
		{
			name:  "unrelated argument falls back to pixel size",
			width: 100, height: 50,
			args: []string{"w:2cm", "KEEPRATIO"},
			want: Extent{Cx: 952500, Cy: 476250},
		},
		{
			name:  "zero sized picture",
			width: 0, height: 0,
			args: []string{"w:1cm"},
			want: Extent{Cx: 360000, Cy: 360000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TransformSize(tt.width, tt.height, tt.args)
			if err != nil {
				t.Fatalf("TransformSize() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("TransformSize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransformSizeInvalidValue(t *testing.T) {
	_, err := TransformSize(10, 10, []string{"w:99999999999999999999999"})
	if !IsPictureArgumentError(err) {
		t.Fatalf("expected PictureArgumentError, got %v", err)
	}
}

func TestLengthToEmu(t *testing.T) {
	tests := []struct {
		value int
		unit  string
		want  int64
	}{
		{1, "", EmuPerPixel},
		{1, "px", 9525},
		{1, "cm", 360000},
		{1, "in", 914400},
		{1, "pt", 12700},
		{1, "mm", 36000},
		{3, "cm", 1080000},
	}
	for _, tt := range tests {
		got, err := LengthToEmu(tt.value, tt.unit)
		if err != nil {
			t.Errorf("LengthToEmu(%d, %q) error = %v", tt.value, tt.unit, err)
			continue
		}
		if got != tt.want {
			t.Errorf("LengthToEmu(%d, %q) = %d, want %d", tt.value, tt.unit, got, tt.want)
		}
	}

	if _, err := LengthToEmu(1, "ft"); err == nil {
		t.Error("expected error for unknown unit")
	}
}

func TestRotation(t *testing.T) {
	r := Rotation(90)
	if got := r.Units(); got != 5400000 {
		t.Errorf("Units() = %d, want 5400000", got)
	}
	if got := r.AddUnits(5400000); got != 180 {
		t.Errorf("AddUnits() = %v, want 180", got)
	}
	if got := RotationFromUnits(2700000); got != 45 {
		t.Errorf("RotationFromUnits() = %v, want 45", got)
	}
}
