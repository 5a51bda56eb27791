// Command pdfdump loads a PDF file's cross-reference structure and dumps a
// summary of its object graph: header version, trailer keys, the catalog's
// object kind, and any warnings recorded while walking the catalog. Xref
// entries are not counted or listed.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nodalcore/pdfcore/pdfcore"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			os.Exit(1)
		}
	}()

	var (
		inputPDF = flag.String("input", "", "Path to the PDF file to inspect")
		dumpJSON = flag.Bool("json", false, "Emit the summary as JSON instead of plain text")
		verbose  = flag.Bool("verbose", false, "Add the /Type of the catalog's /Pages object to the summary (shown in JSON output)")
	)
	flag.Parse()

	if *inputPDF == "" {
		log.Fatal("Error: -input flag is required")
	}

	data, err := os.ReadFile(*inputPDF)
	if err != nil {
		log.Fatalf("Error reading %s: %v", *inputPDF, err)
	}

	doc, err := pdfcore.Load(data)
	if err != nil {
		log.Fatalf("Error loading PDF: %v", err)
	}

	summary := summarize(doc, *verbose)
	if *dumpJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			log.Fatalf("Error encoding summary: %v", err)
		}
		return
	}
	printSummary(summary)
}

type objectSummary struct {
	Version      string   `json:"version"`
	TrailerKeys  []string `json:"trailer_keys"`
	Warnings     []string `json:"warnings,omitempty"`
	RootKind     string   `json:"root_kind"`
	RootPageKind string   `json:"root_pages_kind,omitempty"`
}

func summarize(doc *pdfcore.Document, verbose bool) objectSummary {
	var trailerKeys []string
	for k := range doc.Trailer() {
		trailerKeys = append(trailerKeys, k)
	}

	var warnings []string
	for _, w := range doc.Warnings {
		warnings = append(warnings, w.String())
	}

	s := objectSummary{
		Version:     fmt.Sprintf("%d.%d", doc.Version.Major, doc.Version.Minor),
		TrailerKeys: trailerKeys,
		Warnings:    warnings,
	}

	root, err := doc.Root()
	if err != nil {
		s.RootKind = "error: " + err.Error()
		return s
	}
	s.RootKind = root.Kind.String()

	if verbose {
		if pages, ok, _ := doc.DictGet(root, "Pages"); ok {
			if pagesKind, ok, _ := doc.DictGetName(pages, "Type"); ok {
				s.RootPageKind = pagesKind
			}
		}
	}
	return s
}

func printSummary(s objectSummary) {
	fmt.Printf("PDF version: %s\n", s.Version)
	fmt.Printf("Catalog kind: %s\n", s.RootKind)
	fmt.Printf("Trailer keys: %v\n", s.TrailerKeys)
	if len(s.Warnings) > 0 {
		fmt.Println("Warnings:")
		for _, w := range s.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
