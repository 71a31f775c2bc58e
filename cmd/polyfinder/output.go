package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"rm-polyfinder/pkg/encoding"
	"rm-polyfinder/pkg/poly"
)

// report is the JSON form of a result. Packed holds encoding.PackList of
// the representatives, hex encoded.
type report struct {
	RunID           string   `json:"run_id"`
	TargetWeight    int      `json:"target_weight,omitempty"`
	Seed            uint64   `json:"seed"`
	Representatives []string `json:"representatives"`
	Packed          string   `json:"packed"`
	Leaves          int      `json:"leaves,omitempty"`
	Hits            int      `json:"hits,omitempty"`
	Candidates      int      `json:"candidates,omitempty"`
	Seconds         float64  `json:"seconds"`
}

func newReport(ps []poly.Poly) report {
	r := report{Representatives: make([]string, len(ps))}
	for i, p := range ps {
		r.Representatives[i] = encoding.Format(p)
	}
	r.Packed = hex.EncodeToString(encoding.PackList(ps))
	return r
}

// polys decodes the packed representatives, falling back to the text form.
func (r report) polys() ([]poly.Poly, error) {
	if r.Packed != "" {
		data, err := hex.DecodeString(r.Packed)
		if err != nil {
			return nil, fmt.Errorf("packed representatives: %w", err)
		}
		return encoding.UnpackList(data)
	}
	ps := make([]poly.Poly, len(r.Representatives))
	for i, s := range r.Representatives {
		p, err := encoding.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("representative %d: %w", i, err)
		}
		ps[i] = p
	}
	return ps, nil
}

func readReport(path string) (report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return report{}, err
	}
	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return report{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return r, nil
}

func writeReport(w io.Writer, format string, r report, ps []poly.Poly) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "text":
		_, err := fmt.Fprintf(w, "Number of polynomial representatives: %d\nList of representatives:\n%s\n",
			len(ps), encoding.FormatList(ps))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
