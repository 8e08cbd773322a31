package pdf

// Fragment is a run of text at a position on the page.
// X grows to the right and Y grows downward from the top of the page.
type Fragment struct {
	Text     string
	X        float64
	Y        float64
	Width    float64
	FontSize float64
}

// Info is the structural summary of a document read by Inspect
type Info struct {
	PageCount int
}

// glyph is one shown string as reported by a backend, in PDF user space
type glyph struct {
	S        string
	X        float64
	Y        float64 // baseline, bottom-up
	W        float64
	FontSize float64
}

// FragmentOption is a function that modifies how glyphs are merged into fragments
type FragmentOption func(*fragmentConfig)

type fragmentConfig struct {
	BaselineTolerance float64
	GapRatio          float64
}

func defaultFragmentConfig() *fragmentConfig {
	return &fragmentConfig{
		BaselineTolerance: 0.5,
		GapRatio:          0.6,
	}
}

// WithBaselineTolerance sets how far apart two glyph baselines may be and still join one fragment
func WithBaselineTolerance(tolerance float64) FragmentOption {
	return func(c *fragmentConfig) {
		c.BaselineTolerance = tolerance
	}
}

// WithGapRatio sets the largest horizontal gap, as a fraction of the font size,
// that still joins two glyphs into one fragment
func WithGapRatio(ratio float64) FragmentOption {
	return func(c *fragmentConfig) {
		c.GapRatio = ratio
	}
}
