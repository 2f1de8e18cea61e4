package prettyprinter

import (
	"github.com/latticelang/latticec/internal/diagnostics"
)

// DumpDiagnostics renders every collected diagnostic grouped by severity,
// each group in the order diags lists them. Collector.Summary gives the
// one-line "N errors, M warnings" total (spec §7); this gives the verbose
// per-diagnostic listing a -emit dump needs underneath it.
func DumpDiagnostics(diags []*diagnostics.Diagnostic) string {
	bySeverity := map[string][]*diagnostics.Diagnostic{}
	for _, d := range diags {
		key := d.Severity.String()
		bySeverity[key] = append(bySeverity[key], d)
	}

	p := &printer{}
	for _, severity := range sortedKeys(countsOnly(bySeverity)) {
		p.line("%s:", severity)
		p.indent++
		for _, d := range bySeverity[severity] {
			p.line("%s: %s (file %d, byte %d)", d.Code, d.Message, d.PrimarySpan.FileID, d.PrimarySpan.StartByte)
		}
		p.indent--
	}
	return p.buf.String()
}

func countsOnly(bySeverity map[string][]*diagnostics.Diagnostic) map[string]int {
	counts := make(map[string]int, len(bySeverity))
	for k, v := range bySeverity {
		counts[k] = len(v)
	}
	return counts
}
