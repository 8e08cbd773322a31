package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pyhub-apps/callreport-golang"
	"github.com/pyhub-apps/callreport-golang/pkg/extract"
	"github.com/pyhub-apps/callreport-golang/pkg/pdf"
	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/benchmark <report-dir>")
		os.Exit(1)
	}

	paths, err := filepath.Glob(filepath.Join(os.Args[1], "*.pdf"))
	if err != nil {
		log.Fatalf("Failed to list reports: %v", err)
	}
	if len(paths) == 0 {
		log.Fatalf("No PDF files in %s", os.Args[1])
	}

	var files []callreport.ReportFile
	var openTime, extractTime time.Duration
	var pages, records int
	extractor := extract.New()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}

		start := time.Now()
		doc, err := pdf.Open(data)
		if err != nil {
			fmt.Printf("skip %s: %v\n", filepath.Base(path), err)
			continue
		}
		openTime += time.Since(start)

		start = time.Now()
		result := extractor.ExtractFrom(doc)
		extractTime += time.Since(start)
		pages += doc.PageCount()
		records += len(result.Records)
		doc.Close()

		files = append(files, report.NewReportFile(filepath.Base(path), result.Records))
	}

	start := time.Now()
	series := callreport.Reconcile(files)
	reconcileTime := time.Since(start)

	fmt.Printf("=== Call Report Benchmark ===\n")
	fmt.Printf("Files: %d, pages: %d\n", len(files), pages)
	fmt.Printf("Open time: %v\n", openTime)
	fmt.Printf("Extraction time: %v\n", extractTime)
	fmt.Printf("Records extracted: %d\n", records)
	fmt.Printf("Reconcile time: %v\n", reconcileTime)
	fmt.Printf("Series records: %d\n", len(series))

	totalTime := openTime + extractTime + reconcileTime
	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Total processing time: %v\n", totalTime)
	fmt.Printf("Pages/sec: %.2f\n", float64(pages)/totalTime.Seconds())
}
