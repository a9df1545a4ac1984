package pdfprep

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hleroy/pdfprep/internal/fileutil"
)

// PartName returns the conventional output name for part i (0-indexed)
// of total parts: "base_part{N}.ext" when total > 1, path unchanged
// otherwise. A single part is the whole compliant document and carries
// no suffix.
func PartName(path string, i, total int) string {
	if total <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_part%d%s", base, i+1, ext)
}

// Assemble copies the plan's segments to their final destinations
// derived from outPath, preserving segment order (segment i becomes
// part i+1). It performs no size logic. The plan still owns its
// artifacts afterwards; callers release it once Assemble returns.
func Assemble(plan *PartitionPlan, outPath string) ([]string, error) {
	if plan == nil || len(plan.Segments) == 0 {
		return nil, fmt.Errorf("nothing to assemble: empty plan")
	}

	outputs := make([]string, 0, len(plan.Segments))
	for i, seg := range plan.Segments {
		dst := PartName(outPath, i, len(plan.Segments))
		if err := fileutil.CopyFile(seg.Path, dst); err != nil {
			return nil, fmt.Errorf("assembling part %d: %w", i+1, err)
		}
		outputs = append(outputs, dst)
	}
	return outputs, nil
}
