package blend

import "testing"

func TestMulDiv255(t *testing.T) {
	tests := []struct {
		name string
		a, b byte
		want byte
	}{
		{"zero * zero", 0, 0, 0},
		{"zero * max", 0, 255, 0},
		{"max * max", 255, 255, 255},
		{"half * half", 128, 128, 64},
		{"255 * 128", 255, 128, 128},
		{"1 * 1", 1, 1, 0},
		{"100 * 100", 100, 100, 39},
		{"200 * 200", 200, 200, 157},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mulDiv255(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("mulDiv255(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestMulDiv255Identity checks that multiplying by 255 is lossless, which the
// mask compositing relies on for untouched pixels.
func TestMulDiv255Identity(t *testing.T) {
	for v := 0; v < 256; v++ {
		if got := mulDiv255(byte(v), 255); got != byte(v) {
			t.Fatalf("mulDiv255(%d, 255) = %d, want %d", v, got, v)
		}
		if got := mulDiv255(byte(v), 0); got != 0 {
			t.Fatalf("mulDiv255(%d, 0) = %d, want 0", v, got)
		}
	}
}

func TestBlendFuncs(t *testing.T) {
	type px [4]byte
	red := px{255, 0, 0, 255}
	blue := px{0, 0, 255, 255}
	clear := px{0, 0, 0, 0}
	white := px{255, 255, 255, 255}

	tests := []struct {
		name string
		mode BlendMode
		s, d px
		want px
	}{
		{"source", BlendSource, red, blue, red},
		{"source transparent", BlendSource, clear, blue, clear},
		{"source over opaque", BlendSourceOver, red, blue, red},
		{"source over transparent src", BlendSourceOver, clear, blue, blue},
		{"half gray over white", BlendSourceOver, px{128, 128, 128, 128}, white, white},
		{"destination in opaque mask", BlendDestinationIn, white, blue, blue},
		{"destination in empty mask", BlendDestinationIn, clear, blue, clear},
		{"destination out opaque", BlendDestinationOut, white, blue, clear},
		{"destination out empty", BlendDestinationOut, clear, blue, blue},
		{"xor both opaque", BlendXor, white, white, clear},
		{"xor src only", BlendXor, white, clear, white},
		{"xor dst only", BlendXor, clear, white, white},
		{"plus", BlendPlus, px{100, 0, 0, 100}, px{200, 0, 0, 200}, px{255, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := GetBlendFunc(tt.mode)
			r, g, b, a := fn(tt.s[0], tt.s[1], tt.s[2], tt.s[3], tt.d[0], tt.d[1], tt.d[2], tt.d[3])
			if got := (px{r, g, b, a}); got != tt.want {
				t.Errorf("%v = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestGetBlendFuncUnknownFallsBackToSourceOver(t *testing.T) {
	fn := GetBlendFunc(BlendMode(200))
	r, g, b, a := fn(0, 0, 0, 0, 10, 20, 30, 255)
	if r != 10 || g != 20 || b != 30 || a != 255 {
		t.Errorf("unknown mode = (%d, %d, %d, %d), want destination unchanged", r, g, b, a)
	}
}

func TestBlendModeString(t *testing.T) {
	if got := BlendDestinationOut.String(); got != "DestinationOut" {
		t.Errorf("String() = %q, want %q", got, "DestinationOut")
	}
	if got := BlendMode(99).String(); got != "Unknown" {
		t.Errorf("String() = %q, want %q", got, "Unknown")
	}
}
