package callreport

import (
	"bytes"
	"fmt"
	"strings"
)

// textCell is a run of text drawn at (x, y) in PDF user space
type textCell struct {
	x, y float64
	text string
}

// row lays cells out from x=40, spacing columns 44 units apart, with the
// first cell given extra room for the date
func row(y float64, cells ...string) []textCell {
	out := make([]textCell, len(cells))
	x := 40.0
	for i, c := range cells {
		out[i] = textCell{x: x, y: y, text: c}
		if i == 0 {
			x += 120
		} else {
			x += 44
		}
	}
	return out
}

func cells(parts ...[]textCell) []textCell {
	var out []textCell
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// buildPDF writes a minimal Letter-sized PDF with one page per cell list, set
// in 8pt Courier
func buildPDF(pages ...[]textCell) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding" +
		" /FirstChar 32 /LastChar 126 /Widths [" + strings.TrimSpace(strings.Repeat("600 ", 95)) + "] >>")

	for i, page := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]"+
			" /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))

		var content strings.Builder
		for _, c := range page {
			fmt.Fprintf(&content, "BT /F1 8 Tf %.2f %.2f Td (%s) Tj ET\n", c.x, c.y, c.text)
		}
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}
