// Package report renders the summary of a charsniff run.
package report

import (
	"xdao.co/charsniff/runner"
	"xdao.co/charsniff/sniff"
)

// Document is the serialized form shared by the structured formats.
type Document struct {
	OK      bool        `json:"ok" yaml:"ok"`
	Checked int         `json:"checked" yaml:"checked"`
	Bad     int         `json:"bad" yaml:"bad"`
	Missing int         `json:"missing" yaml:"missing"`
	Files   []FileEntry `json:"files" yaml:"files"`
}

type FileEntry struct {
	Path        string   `json:"path" yaml:"path"`
	Status      string   `json:"status" yaml:"status"`
	Size        int64    `json:"size" yaml:"size"`
	CID         string   `json:"cid,omitempty" yaml:"cid,omitempty"`
	Rule        string   `json:"rule,omitempty" yaml:"rule,omitempty"`
	Reason      string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	Offending   []string `json:"offending,omitempty" yaml:"offending,omitempty"`
	DetectedEOL string   `json:"detected_eol,omitempty" yaml:"detected_eol,omitempty"`
}

// NewDocument converts a run summary.
func NewDocument(sum runner.Summary) Document {
	doc := Document{
		OK:      sum.OK(),
		Checked: sum.Checked,
		Bad:     sum.Bad,
		Missing: sum.Missing,
		Files:   make([]FileEntry, 0, len(sum.Results)),
	}
	for _, res := range sum.Results {
		e := FileEntry{
			Path:   res.Path,
			Status: string(res.Status),
			Size:   res.Size,
			CID:    res.CID,
			Reason: res.Reason,
		}
		if v := res.Verdict; v != nil && !v.OK {
			e.Rule = v.RuleID
			e.Offending = v.OffendingChars()
			if v.DetectedEOL != sniff.Undefined {
				e.DetectedEOL = v.DetectedEOL.String()
			}
		}
		doc.Files = append(doc.Files, e)
	}
	return doc
}
