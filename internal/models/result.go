package models

// AnalysisMetadata describes one analysis run.
type AnalysisMetadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// ExtractedSection is one ranked section in the final output.
// PageNumber is formatted as "start" or "start-end" for multi-page chunks.
type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     string `json:"page_number"`
}

// SubsectionAnalysis carries the refined sentence text for one section.
// Entries align 1:1 with ExtractedSections by rank.
type SubsectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  string `json:"page_number"`
}

// AnalysisResult is the complete persona-driven analysis output.
type AnalysisResult struct {
	Metadata           AnalysisMetadata     `json:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis"`
}
