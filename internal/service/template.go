package service

import (
	"fmt"

	"github.com/promptforge/promptforge/internal/model"
)

// PromptTemplate is the fixed instruction envelope wrapped around a
// user's raw prompt before it is sent upstream. The mapping from tier
// to template lives here so tiers and providers can be swapped without
// touching the refine control flow.
type PromptTemplate struct {
	// Instruction is a format string with one %q verb for the raw prompt.
	Instruction string
}

// Render wraps the raw prompt in the instruction envelope.
func (t PromptTemplate) Render(rawPrompt string) string {
	return fmt.Sprintf(t.Instruction, rawPrompt)
}

// basicInstruction demands a single rewritten prompt and nothing else.
const basicInstruction = `You are an expert prompt engineer. A user will provide a vague prompt. Your ONLY job is to rewrite it into a single, highly-detailed, and actionable prompt for a code-generating AI. Do NOT write a guide. Do NOT answer the prompt. ONLY output the single, improved prompt text. User prompt: %q`

// proInstruction demands a structured markdown decomposition of a vague
// product idea, with no code blocks.
const proInstruction = `You are "Catalyst," an expert strategic co-founder (CPO/CTO/CMO). I am "Dev," your AI-Assisted Technical Founder.
My Vague Idea: %q
Your task is to take my vague idea and generate a single, structured, "meta-prompt" for me to give to a code-generating AI.
This meta-prompt MUST be formatted in markdown and include these exact sections:
## CORE_MISSION
(One sentence describing the v1 product.)
## TECH_STACK
(Framework, database, auth, and styling choices as a short list.)
## CORE_DATABASE_SCHEMAS
(Describe the main models as a list of fields and their types - DO NOT provide code blocks, only written descriptions.)
## CORE_FEATURES_TO_BUILD
(A list of the 3-5 most critical v1 features.)
## YOUR_FIRST_TASK
(A single, actionable first step for the coding AI.)
IMPORTANT: Generate ONLY markdown text with bullet points and descriptions. Do NOT include any code blocks, code snippets, or code examples. Write everything as clear, descriptive text.`

// DefaultTemplates returns the tier-to-template mapping.
func DefaultTemplates() map[model.Tier]PromptTemplate {
	return map[model.Tier]PromptTemplate{
		model.TierBasic: {Instruction: basicInstruction},
		model.TierPro:   {Instruction: proInstruction},
	}
}
