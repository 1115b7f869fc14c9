package pdd

import (
	"strings"

	"pddgen/internal/catalog"
)

// Prompt builders are pure functions of their inputs so they can be unit
// tested without a model. The source narrative is always embedded verbatim:
// the core never truncates or summarizes it.

// formattingContract is appended to every prompt whose output becomes
// section content.
const formattingContract = `IMPORTANT FORMATTING INSTRUCTIONS:
- Use HTML tags for formatting: <p> for paragraphs, <ul> and <li> for bulleted lists, <ol> and <li> for numbered lists
- Use <strong> for bold text and <em> for italic text
- DO NOT include markdown formatting (no **, no ##, no - for lists)
- DO NOT repeat the section name/title in your response - start directly with the content
- DO NOT include any preamble or introduction - start immediately with the actual content`

// BuildSectionPrompt assembles the extraction prompt for one catalog entry.
func BuildSectionPrompt(def catalog.SectionDefinition, sourceText string) string {
	var b strings.Builder
	b.WriteString(def.Instruction)
	b.WriteString("\n\nProcess Description:\n")
	b.WriteString(sourceText)
	b.WriteString("\n\nPlease provide the content for the '")
	b.WriteString(def.Name)
	b.WriteString("' section based on the process description above.\n\n")
	b.WriteString(formattingContract)
	return b.String()
}

// BuildDiagramPrompt asks for a top-down flowchart in Mermaid syntax.
func BuildDiagramPrompt(processSteps string) string {
	var b strings.Builder
	b.WriteString(`You are an expert in business process modeling.

Convert the following process steps into a Mermaid.js flowchart diagram.

Requirements:
- Use the ` + "`graph TD`" + ` (top-down) syntax
- Represent each step as a node (e.g., ` + "`A[Step 1]`" + `)
- Represent decision points as diamond shapes (e.g., ` + "`B{Is it valid?}`" + `)
- Use arrows (` + "`-->`" + `) to connect the nodes in sequence
- Keep the node text concise (max 3-4 words per node)
- Use clear, descriptive node IDs (A, B, C, etc.)
- For yes/no decisions, label the arrows like ` + "`-->|Yes|`" + ` and ` + "`-->|No|`" + `
- Include a start node and end node
- ONLY output the valid Mermaid.js code, nothing else
- Do not include markdown formatting (no ` + "```mermaid" + `)

Process Steps:
`)
	b.WriteString(processSteps)
	b.WriteString("\n\nOutput the Mermaid diagram code only:")
	return b.String()
}

// BuildRefinePrompt asks for a rewrite of one section under user feedback.
// The section name is context only; the output must not restate it.
func BuildRefinePrompt(sectionName, currentContent, feedback string) string {
	var b strings.Builder
	b.WriteString("You are an expert Business Analyst refining one section of a Process Design Document.\n\n")
	b.WriteString("The section name is: '" + sectionName + "'\n")
	b.WriteString("The current content is: '" + currentContent + "'\n")
	b.WriteString("The user has provided the following feedback: '" + feedback + "'\n\n")
	b.WriteString(`Rewrite the section content based on the user's feedback.
- Maintain a professional tone
- Keep the content clear and concise
- Preserve the structure (bulleted lists, numbered steps, etc.) where appropriate
- Output only the revised content, nothing else

`)
	b.WriteString(formattingContract)
	return b.String()
}

// skippedVisualNote is substituted when no visual analysis is available,
// which is the common case: frame-level analysis is an external collaborator.
const skippedVisualNote = "Note: visual frame analysis was skipped. Using audio transcription only."

// BuildGuidePrompt combines a transcript and an optional visual-analysis
// note into a request for one normalized step-by-step guide.
func BuildGuidePrompt(transcript, visualNote string) string {
	if strings.TrimSpace(visualNote) == "" {
		visualNote = skippedVisualNote
	}
	var b strings.Builder
	b.WriteString(`You are an expert Business Analyst. Your task is to create a detailed, step-by-step text guide from a screen recording.

You have the audio transcript from the video:
`)
	b.WriteString(transcript)
	b.WriteString("\n\nVisual analysis note: ")
	b.WriteString(visualNote)
	b.WriteString(`

Based on the audio transcript, create a comprehensive, numbered list of steps that describes the process in detail.
- Focus on specific actions, inputs, and decisions mentioned in the audio
- Include any specific field names, button names, or navigation steps described
- Organize into clear, sequential steps
- Add details about business rules or conditions mentioned

Output ONLY the step-by-step guide, nothing else.`)
	return b.String()
}

// BuildChatPrompt builds the clarification-chat prompt; context is optional.
func BuildChatPrompt(message, context string) string {
	var b strings.Builder
	b.WriteString("You are an expert Business Analyst helping a user create a Process Design Document (PDD).\n\n")
	if strings.TrimSpace(context) != "" {
		b.WriteString("Context about the process: " + context + "\n\n")
	}
	b.WriteString("User's question: " + message + "\n\n")
	b.WriteString(`Provide a helpful, concise response to assist with PDD creation.
If the question is about the process, use the provided context.
Keep responses focused on process documentation standards.`)
	return b.String()
}
