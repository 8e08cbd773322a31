package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pyhub-apps/callreport-golang/pkg/extract"
	"github.com/pyhub-apps/callreport-golang/pkg/pdf"
	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/compare_backends <pdf-file>")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	primary, err := pdf.OpenWithLedongthuc(data)
	if err != nil {
		log.Fatalf("ledongthuc failed: %v", err)
	}
	defer primary.Close()

	fallback, err := pdf.OpenWithDslipak(data)
	if err != nil {
		log.Fatalf("dslipak failed: %v", err)
	}
	defer fallback.Close()

	extractor := extract.New()
	a := extractor.ExtractFrom(primary)
	b := extractor.ExtractFrom(fallback)

	for _, doc := range []pdf.Document{primary, fallback} {
		fmt.Printf("%s:\n", doc.Backend())
		fmt.Printf("  Pages: %d\n", doc.PageCount())
		if doc.PageCount() > 0 {
			page, _ := doc.GetPage(0)
			fmt.Printf("  Page 1: %.2f x %.2f, %d fragments\n", page.GetWidth(), page.GetHeight(), len(page.Fragments()))
		}
	}
	fmt.Printf("\nRecords: %s=%d %s=%d\n", primary.Backend(), len(a.Records), fallback.Backend(), len(b.Records))

	other := make(map[string]report.ActivityRecord, len(b.Records))
	for _, r := range b.Records {
		if _, ok := other[r.Key()]; !ok {
			other[r.Key()] = r
		}
	}

	differences := 0
	seen := make(map[string]bool, len(a.Records))
	for _, r := range a.Records {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true

		o, ok := other[r.Key()]
		switch {
		case !ok:
			fmt.Printf("  only %s: %s\n", primary.Backend(), r.Key())
			differences++
		case o != r:
			fmt.Printf("  differs %s:\n    %+v\n    %+v\n", r.Key(), r, o)
			differences++
		}
	}
	for key := range other {
		if !seen[key] {
			fmt.Printf("  only %s: %s\n", fallback.Backend(), key)
			differences++
		}
	}

	if differences == 0 {
		fmt.Println("Backends agree")
		return
	}
	fmt.Printf("%d difference(s)\n", differences)
	os.Exit(1)
}
