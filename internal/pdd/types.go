package pdd

// Section is one named unit of the output document. Content is rich-text
// markup restricted to the subset enforced by the markup policy.
type Section struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// GenerationResult is the full outcome of one generation run. The core
// produces it and does not retain it.
type GenerationResult struct {
	ProcessName   string    `json:"process_name"`
	Sections      []Section `json:"sections"`
	DiagramCode   string    `json:"diagram_code"`
	AnchorSection string    `json:"anchor_section,omitempty"`
}
