package imageutil

import "testing"

func TestApplyZeroValueIsIdentity(t *testing.T) {
	t.Parallel()
	img := CreateColorBarsImage(32, 8)
	out := Apply(img, Adjustments{}, Stylize{})
	if mse := CalculateMSE(img, out); mse != 0 {
		t.Errorf("Expected unchanged image, MSE=%f", mse)
	}
	if out == img {
		t.Error("Apply should return a copy")
	}
}

func TestBrightnessClamps(t *testing.T) {
	t.Parallel()
	img := CreateSolidImage(2, 2, RGB{100, 200, 250})
	got := Brightness(img, 20).GetRGB(0, 0)
	if want := (RGB{120, 220, 255}); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
	got = Brightness(img, -150).GetRGB(1, 1)
	if want := (RGB{0, 50, 100}); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestContrast(t *testing.T) {
	t.Parallel()
	img := CreateSolidImage(1, 2, RGB{100, 128, 160})

	more := Contrast(img, 100).GetRGB(0, 0)
	if !(more.R < 100 && more.G == 128 && more.B > 160) {
		t.Errorf("Positive contrast should spread from mid gray, got %v", more)
	}
	less := Contrast(img, -255).GetRGB(0, 0)
	if less != (RGB{128, 128, 128}) {
		t.Errorf("Minimum contrast should flatten to mid gray, got %v", less)
	}
}

func TestSaturationMinimumIsGray(t *testing.T) {
	t.Parallel()
	img := CreateSolidImage(1, 1, RGB{255, 0, 0})
	got := Saturation(img, -255).GetRGB(0, 0)
	if got.R != got.G || got.G != got.B {
		t.Errorf("Expected gray, got %v", got)
	}
}

func TestHueRotate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      RGB
		degrees float64
		want    RGB
	}{
		{RGB{255, 0, 0}, 120, RGB{0, 255, 0}},
		{RGB{255, 0, 0}, 240, RGB{0, 0, 255}},
		{RGB{0, 0, 255}, 120, RGB{255, 0, 0}},
		{RGB{255, 0, 0}, 360, RGB{255, 0, 0}},
		{RGB{128, 128, 128}, 90, RGB{128, 128, 128}},
	}
	for _, tt := range tests {
		got := HueRotate(CreateSolidImage(1, 1, tt.in), tt.degrees).GetRGB(0, 0)
		if got != tt.want {
			t.Errorf("HueRotate(%v, %v) = %v, want %v", tt.in, tt.degrees, got, tt.want)
		}
	}
}

func TestGamma(t *testing.T) {
	t.Parallel()
	img := CreateSolidImage(1, 1, RGB{0, 64, 255})
	if got := Gamma(img, 1).GetRGB(0, 0); got != (RGB{0, 64, 255}) {
		t.Errorf("Gamma 1 should be identity, got %v", got)
	}
	got := Gamma(img, 2).GetRGB(0, 0)
	if got.R != 0 || got.B != 255 || got.G <= 64 {
		t.Errorf("Gamma 2 should brighten midtones only, got %v", got)
	}
}

func TestInvertSolarize(t *testing.T) {
	t.Parallel()
	img := CreateSolidImage(1, 1, RGB{0, 100, 200})
	if got := Invert(img).GetRGB(0, 0); got != (RGB{255, 155, 55}) {
		t.Errorf("Invert: expected {255 155 55}, got %v", got)
	}
	if got := Solarize(img).GetRGB(0, 0); got != (RGB{0, 100, 55}) {
		t.Errorf("Solarize: expected {0 100 55}, got %v", got)
	}
}

func TestGrayscaleAndSepia(t *testing.T) {
	t.Parallel()
	img := CreateColorBarsImage(16, 1)
	gray := Grayscale(img)
	for x := 0; x < 16; x++ {
		c := gray.GetRGB(x, 0)
		if c.R != c.G || c.G != c.B {
			t.Fatalf("Grayscale pixel %d not gray: %v", x, c)
		}
	}
	if got := Sepia(CreateSolidImage(1, 1, RGB{255, 255, 255})).GetRGB(0, 0); got != (RGB{255, 255, 239}) {
		t.Errorf("Sepia white: expected {255 255 239}, got %v", got)
	}
}

func TestNormalizeStretches(t *testing.T) {
	t.Parallel()
	img := NewRGBAImage(2, 1)
	img.SetRGB(0, 0, RGB{50, 50, 50})
	img.SetRGB(1, 0, RGB{150, 150, 50})
	out := Normalize(img)
	if got := out.GetRGB(0, 0); got != (RGB{0, 0, 50}) {
		t.Errorf("Expected {0 0 50}, got %v", got)
	}
	if got := out.GetRGB(1, 0); got != (RGB{255, 255, 50}) {
		t.Errorf("Expected {255 255 50}, got %v", got)
	}
}

func TestDitherLevels(t *testing.T) {
	t.Parallel()
	img := CreateGradientImage(64, 4)
	out := Dither(img, 1)
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			c := out.GetRGB(x, y)
			if c.R != 0 && c.R != 255 {
				t.Fatalf("Depth 1 dither produced %d at (%d,%d)", c.R, x, y)
			}
		}
	}
	// Error diffusion keeps the average brightness close to the source.
	var srcSum, dstSum int
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			srcSum += int(img.GetRGB(x, y).R)
			dstSum += int(out.GetRGB(x, y).R)
		}
	}
	n := img.Width() * img.Height()
	if diff := abs(srcSum/n - dstSum/n); diff > 16 {
		t.Errorf("Dithered mean drifted by %d", diff)
	}
}

func TestPixelize(t *testing.T) {
	t.Parallel()
	img := NewRGBAImage(4, 2)
	img.SetRGB(0, 0, RGB{100, 0, 0})
	img.SetRGB(1, 0, RGB{0, 0, 0})
	img.SetRGB(0, 1, RGB{0, 0, 0})
	img.SetRGB(1, 1, RGB{0, 0, 0})
	img.SetRGB(2, 0, RGB{8, 8, 8})
	img.SetRGB(3, 0, RGB{8, 8, 8})
	img.SetRGB(2, 1, RGB{8, 8, 8})
	img.SetRGB(3, 1, RGB{8, 8, 8})

	out := Pixelize(img, 2)
	for _, p := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		if got := out.GetRGB(p[0], p[1]); got != (RGB{25, 0, 0}) {
			t.Errorf("Expected {25 0 0} at %v, got %v", p, got)
		}
	}
	if got := out.GetRGB(3, 1); got != (RGB{8, 8, 8}) {
		t.Errorf("Expected {8 8 8}, got %v", got)
	}
}

func TestAddNoiseDeterministic(t *testing.T) {
	t.Parallel()
	img := CreateSolidImage(16, 16, RGB{128, 128, 128})
	a := AddNoise(img, 42)
	b := AddNoise(img, 42)
	if mse := CalculateMSE(a, b); mse != 0 {
		t.Errorf("Same seed should give same noise, MSE=%f", mse)
	}
	if diff := CalculateMaxDiff(img, a); diff == 0 || diff > 32 {
		t.Errorf("Expected noise within (0, 32], got max diff %d", diff)
	}
}

func TestEdgeDetectionFlatIsBlack(t *testing.T) {
	t.Parallel()
	flat := CreateSolidImage(8, 8, RGB{90, 90, 90})
	out := Apply(flat, Adjustments{}, Stylize{EdgeDetection: true})
	if got := out.GetRGB(4, 4); got != (RGB{}) {
		t.Errorf("Flat image should have no edges, got %v", got)
	}

	edges := Apply(CreateEdgeImage(16, 16), Adjustments{}, Stylize{EdgeDetection: true})
	found := false
	for x := 0; x < 16; x++ {
		if edges.GetRGB(x, 4).R > 0 {
			found = true
		}
	}
	if !found {
		t.Error("Expected edges along the rectangle border")
	}
}

func TestOilPaintSolid(t *testing.T) {
	t.Parallel()
	c := RGB{30, 60, 90}
	img := CreateSolidImage(6, 6, c)
	out := OilPaint(img, 2, 20)
	if diff := CalculateMaxDiff(img, out); diff != 0 {
		t.Errorf("Oil paint on a solid image should be identity, max diff %d", diff)
	}
}

func TestPrepare(t *testing.T) {
	t.Parallel()
	img := CreateColorBarsImage(80, 40)
	out := Prepare(img, 20, InterpolationNearest, Adjustments{}, Stylize{Invert: true})
	if out.Width() != 20 || out.Height() != 10 {
		t.Fatalf("Expected 20x10, got %dx%d", out.Width(), out.Height())
	}
	// Rightmost bar is black; inverted it turns white.
	if got := out.GetRGB(19, 5); got != (RGB{255, 255, 255}) {
		t.Errorf("Expected white, got %v", got)
	}
}
