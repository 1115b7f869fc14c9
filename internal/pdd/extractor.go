package pdd

import (
	"context"
	"log"
	"strings"
	"sync"

	"pddgen/internal/catalog"
	llmclient "pddgen/internal/llmClient"
)

// PlaceholderContent marks a section whose generation call failed. The
// section still occupies its catalog slot so the document keeps its shape.
const PlaceholderContent = "<p><em>Content unavailable: generation failed for this section.</em></p>"

// DefaultWorkers bounds concurrent per-section model calls.
const DefaultWorkers = 5

// Extractor turns one process narrative into the full ordered section
// sequence, one generative call per catalog entry. Calls are dispatched
// concurrently; the result is always in catalog order.
type Extractor struct {
	LLM     llmclient.Client
	Workers int

	// OnSection, when set, observes sections as their calls complete
	// (completion order, not catalog order). failed reports whether the
	// section carries placeholder content.
	OnSection func(index, total int, sec Section, failed bool)
}

// Extract runs one generative call per catalog entry and assembles the
// results in catalog order. A failed per-section call yields placeholder
// content instead of aborting the run; cancellation of ctx aborts the whole
// operation with no partial result.
func (e *Extractor) Extract(ctx context.Context, sourceText string, cat catalog.Catalog) ([]Section, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, &InvalidInputError{Msg: "process text is empty"}
	}

	n := cat.Len()
	results := make([]Section, n)

	workers := e.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > n {
		workers = n
	}

	tasks := make(chan int, n)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-tasks:
					if !ok {
						return
					}
					results[i] = e.extractOne(ctx, cat.Sections[i], sourceText, i, n)
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	// All-or-nothing at the caller boundary: a canceled run returns no
	// partial document even though individual failures are tolerated.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// extractOne performs a single per-section call. Failure is absorbed here:
// the section comes back with placeholder content rather than an error, so
// one bad call never drops a section from the sequence. Cancellation is the
// exception; Extract discards everything in that case.
func (e *Extractor) extractOne(ctx context.Context, def catalog.SectionDefinition, sourceText string, index, total int) Section {
	sec := Section{Name: def.Name}
	out, err := e.LLM.Complete(ctx, BuildSectionPrompt(def, sourceText))
	failed := false
	switch {
	case ctx.Err() != nil:
		// The run is being torn down; content is irrelevant.
		return sec
	case err != nil:
		log.Printf("extract %q failed, keeping placeholder: %v", def.Name, err)
		sec.Content = PlaceholderContent
		failed = true
	default:
		sec.Content = SanitizeMarkup(out)
	}
	if e.OnSection != nil {
		e.OnSection(index, total, sec, failed)
	}
	return sec
}
