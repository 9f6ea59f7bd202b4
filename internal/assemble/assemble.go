// Package assemble formats ranked chunks into the final analysis result.
// It never reorders its input: ranking decisions belong to the pipeline.
package assemble

import (
	"fmt"
	"time"

	"github.com/hyperjump/midashi/internal/models"
)

// Assembler builds analysis results. The clock is injectable so tests can
// fix the processing timestamp.
type Assembler struct {
	now func() time.Time
}

func New() *Assembler {
	return &Assembler{now: time.Now}
}

func NewWithClock(now func() time.Time) *Assembler {
	return &Assembler{now: now}
}

// Assemble produces the output document for one analysis run. Ranks are
// 1-based in ranked order, and the subsection analysis is index-aligned
// with the extracted sections.
func (a *Assembler) Assemble(query models.PersonaQuery, docNames []string, ranked []models.RankedChunk) *models.AnalysisResult {
	if docNames == nil {
		docNames = []string{}
	}
	result := &models.AnalysisResult{
		Metadata: models.AnalysisMetadata{
			InputDocuments:      docNames,
			Persona:             query.Role,
			JobToBeDone:         query.Task,
			ProcessingTimestamp: a.now().Format(time.RFC3339),
		},
		ExtractedSections:  make([]models.ExtractedSection, 0, len(ranked)),
		SubsectionAnalysis: make([]models.SubsectionAnalysis, 0, len(ranked)),
	}
	for i, rc := range ranked {
		pages := FormatPageRange(rc.Chunk.PageStart, rc.Chunk.PageEnd)
		result.ExtractedSections = append(result.ExtractedSections, models.ExtractedSection{
			Document:       rc.Chunk.DocumentID,
			SectionTitle:   rc.Chunk.Heading,
			ImportanceRank: i + 1,
			PageNumber:     pages,
		})
		result.SubsectionAnalysis = append(result.SubsectionAnalysis, models.SubsectionAnalysis{
			Document:    rc.Chunk.DocumentID,
			RefinedText: rc.RefinedText,
			PageNumber:  pages,
		})
	}
	return result
}

// FormatPageRange renders a page span as "start" when the chunk sits on a
// single page and "start-end" otherwise.
func FormatPageRange(start, end int) string {
	if end <= start {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}
