// Command debug_fragments prints the fragments, row bands and extracted
// records of one report PDF
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pyhub-apps/callreport-golang/pkg/extract"
	"github.com/pyhub-apps/callreport-golang/pkg/pdf"
	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

func main() {
	tolerance := flag.Float64("row-tolerance", pdf.DefaultRowTolerance, "Vertical distance within which text shares a row")
	showFragments := flag.Bool("fragments", false, "Print every fragment with its position")
	validate := flag.Bool("validate", false, "Validate the PDF structure with pdfcpu first")
	verbose := flag.Bool("v", false, "Log table state changes and skipped rows")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: debug_fragments [flags] callCenterReport_YYMMDD_HHMMSS.pdf")
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	if *validate {
		info, err := pdf.Inspect(data)
		if err != nil {
			log.Fatalf("Invalid PDF: %v", err)
		}
		fmt.Printf("pdfcpu: %d page(s)\n", info.PageCount)
	}

	doc, err := pdf.Open(data)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	name := filepath.Base(path)
	generatedAt, precision, err := report.ParseFileName(name)
	if err != nil {
		fmt.Printf("File name: %s (unparseable, ranks oldest)\n", name)
	} else {
		fmt.Printf("File name: %s (generated %s, %s precision)\n", name, generatedAt.Format("2006-01-02 15:04:05"), precision)
	}
	fmt.Printf("Backend %s, %d page(s)\n\n", doc.Backend(), doc.PageCount())

	for _, page := range doc.GetPages() {
		fragments := page.Fragments()
		fmt.Printf("=== Page %d (%.0f x %.0f, %d fragments) ===\n",
			page.GetPageNumber(), page.GetWidth(), page.GetHeight(), len(fragments))

		if *showFragments {
			for i, f := range fragments {
				fmt.Printf("  %4d  x=%7.2f y=%7.2f w=%6.2f size=%4.1f  %q\n", i, f.X, f.Y, f.Width, f.FontSize, f.Text)
			}
			fmt.Println()
		}

		decoded := make([]pdf.Fragment, len(fragments))
		for i, f := range fragments {
			f.Text = pdf.DecodeText(f.Text)
			decoded[i] = f
		}
		printRows(pdf.GroupRows(decoded, *tolerance))
		fmt.Println()
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
	}
	result := extract.New(extract.WithRowTolerance(*tolerance), extract.WithLogger(logger)).ExtractFrom(doc)

	fmt.Printf("Activity rows: %d, watermark rows: %d, skipped: %d, unmatched watermarks: %d\n",
		result.Stats.ActivityRows, result.Stats.WatermarkRows, result.Stats.SkippedRows, result.Stats.UnmatchedWatermarks)
	for _, r := range result.Records {
		fmt.Printf("  %s queued=%d presented=%d answered=%d (%d%%) in60=%d abandoned=%d bounced=%d wait=%s answer=%s abandon=%s\n",
			r.Key(), r.Queued, r.Presented, r.Answered, r.PercentAnswered, r.AnsweredIn60Secs,
			r.Abandoned, r.Bounced, r.LongestWait, r.LongestAnswer, r.LongestAbandoned)
	}
}

// getMaxColumns returns the maximum number of cells in any row
func getMaxColumns(rows []pdf.Row) int {
	maxCols := 0
	for _, row := range rows {
		if len(row.Fragments) > maxCols {
			maxCols = len(row.Fragments)
		}
	}
	return maxCols
}

// printRows prints row bands as a table, one line per band
func printRows(rows []pdf.Row) {
	if len(rows) == 0 {
		fmt.Println("  No text")
		return
	}

	colWidths := make([]int, getMaxColumns(rows))
	for _, row := range rows {
		for j, cell := range row.Texts() {
			if len(cell) > colWidths[j] {
				colWidths[j] = len(cell)
			}
		}
	}
	for i := range colWidths {
		colWidths[i] = min(max(colWidths[i], 3), 30)
	}

	printSeparator(colWidths)
	for _, row := range rows {
		fmt.Printf("  %7.2f |", row.Y)
		texts := row.Texts()
		for j := 0; j < len(colWidths); j++ {
			cell := ""
			if j < len(texts) {
				cell = texts[j]
				if len(cell) > colWidths[j] {
					cell = cell[:colWidths[j]-3] + "..."
				}
			}
			fmt.Printf(" %-*s |", colWidths[j], cell)
		}
		fmt.Println()
	}
	printSeparator(colWidths)
}

// printSeparator prints a table separator line
func printSeparator(colWidths []int) {
	fmt.Print("  " + strings.Repeat("-", 7) + " +")
	for _, width := range colWidths {
		fmt.Print(strings.Repeat("-", width+2) + "+")
	}
	fmt.Println()
}
