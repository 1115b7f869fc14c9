package pdd

import (
	"context"
	"log"

	"pddgen/internal/catalog"
	llmclient "pddgen/internal/llmClient"
)

// Service orchestrates one full generation run: extraction, process-name
// derivation, diagram synthesis, anchor resolution. It holds no state
// across calls; every run produces an independent GenerationResult.
type Service struct {
	Catalog   catalog.Catalog
	Extractor *Extractor
	Diagram   *DiagramSynthesizer
	Refiner   *Refiner
	Guide     *GuideSynthesizer
	LLM       llmclient.Client
}

// NewService wires the generation components around one shared client.
// The client must be safe for concurrent use; all components are pure
// consumers of its single Complete operation.
func NewService(client llmclient.Client, cat catalog.Catalog, workers int) *Service {
	return &Service{
		Catalog:   cat,
		Extractor: &Extractor{LLM: client, Workers: workers},
		Diagram:   &DiagramSynthesizer{LLM: client},
		Refiner:   &Refiner{LLM: client},
		Guide:     &GuideSynthesizer{LLM: client},
		LLM:       client,
	}
}

// Generate turns a process narrative into the full document payload.
// Extraction failure aborts the run; diagram failure does not — the
// diagram is a decoration and the document is still usable without it.
func (s *Service) Generate(ctx context.Context, processText string) (GenerationResult, error) {
	return s.GenerateWithProgress(ctx, processText, nil)
}

// GenerateWithProgress is Generate with a per-section callback, used by
// the streaming endpoint. The callback runs on worker goroutines.
func (s *Service) GenerateWithProgress(ctx context.Context, processText string, onSection func(index, total int, sec Section, failed bool)) (GenerationResult, error) {
	ext := s.Extractor
	if onSection != nil {
		ext = &Extractor{LLM: ext.LLM, Workers: ext.Workers, OnSection: onSection}
	}
	sections, err := ext.Extract(ctx, processText, s.Catalog)
	if err != nil {
		return GenerationResult{}, err
	}

	res := GenerationResult{
		ProcessName: ProcessName(sections),
		Sections:    sections,
	}
	if anchor, ok := s.Catalog.AnchorIndex(); ok {
		res.AnchorSection = s.Catalog.Sections[anchor].Name
	}

	if src, ok := s.Catalog.SourceIndex(); ok {
		code, err := s.Diagram.Synthesize(ctx, sections[src].Content)
		if err != nil {
			log.Printf("diagram generation failed, continuing without it: %v", err)
		} else {
			res.DiagramCode = code
		}
	}
	return res, nil
}
