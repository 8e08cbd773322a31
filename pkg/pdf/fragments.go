package pdf

import (
	"math"
	"strings"
)

// mergeGlyphs joins consecutive glyphs that share a baseline and sit close
// together into fragments. Glyphs are taken in content-stream order, which is
// the order the fragments are returned in.
func mergeGlyphs(glyphs []glyph, pageHeight float64, cfg *fragmentConfig) []Fragment {
	var (
		fragments []Fragment
		text      strings.Builder
		run       glyph
		runEnd    float64
		open      bool
	)

	flush := func() {
		if !open {
			return
		}
		s := strings.TrimSpace(text.String())
		if s != "" {
			fragments = append(fragments, Fragment{
				Text:     s,
				X:        run.X,
				Y:        pageHeight - run.Y,
				Width:    runEnd - run.X,
				FontSize: run.FontSize,
			})
		}
		text.Reset()
		open = false
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		blank := strings.TrimSpace(g.S) == ""

		if open {
			gap := g.X - runEnd
			maxGap := cfg.GapRatio * math.Max(run.FontSize, g.FontSize)
			sameLine := math.Abs(g.Y-run.Y) <= cfg.BaselineTolerance
			// a glyph left of the run (beyond one font size) starts a new fragment
			if !sameLine || gap > maxGap || gap < -math.Max(run.FontSize, 1) {
				if !blank {
					flush()
				}
			}
		}

		if !open {
			if blank {
				continue
			}
			run = g
			runEnd = g.X
			open = true
		}

		text.WriteString(g.S)
		if !blank {
			runEnd = g.X + g.W
		}
	}
	flush()

	return fragments
}
