package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/google/pprof/profile"
)

// summarizeProfile opens a pprof-format CPU profile and prints the
// top sampled leaf functions, using google/pprof's profile package to
// parse it rather than shelling out to the pprof tool — a quick
// textual report is enough to see whether a run_circuit invocation
// spent its time in the kernel's apply loop or stalled on page faults.
func summarizeProfile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	prof, err := profile.Parse(f)
	if err != nil {
		return err
	}
	if len(prof.SampleType) == 0 {
		return fmt.Errorf("profile has no sample types")
	}
	valueIdx := len(prof.SampleType) - 1

	totals := make(map[string]int64)
	for _, s := range prof.Sample {
		if len(s.Location) == 0 {
			continue
		}
		loc := s.Location[0]
		if len(loc.Line) == 0 || loc.Line[0].Function == nil {
			continue
		}
		totals[loc.Line[0].Function.Name] += s.Value[valueIdx]
	}

	type row struct {
		name string
		v    int64
	}
	rows := make([]row, 0, len(totals))
	for k, v := range totals {
		rows = append(rows, row{k, v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].v > rows[j].v })

	limit := 10
	if len(rows) < limit {
		limit = len(rows)
	}
	fmt.Printf("top %d sampled functions (%s):\n", limit, prof.SampleType[valueIdx].Type)
	for i := 0; i < limit; i++ {
		fmt.Printf("  %12d  %s\n", rows[i].v, rows[i].name)
	}
	return nil
}
