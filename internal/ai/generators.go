package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Generator produces one named section of AI content from a user's report.
type Generator struct {
	Name   string
	prompt func(statsJSON string) string
}

// Generators returns the full set of content generators in the order they
// appear in the final report.
func Generators() []Generator {
	return []Generator{
		{Name: "narrative", prompt: narrativePrompt},
		{Name: "personality", prompt: personalityPrompt},
		{Name: "roast", prompt: roastPrompt},
		{Name: "aura", prompt: auraPrompt},
		{Name: "superlatives", prompt: superlativesPrompt},
		{Name: "hot_takes", prompt: hotTakesPrompt},
		{Name: "suggestions", prompt: suggestionsPrompt},
	}
}

// Generate runs one generator against the report stats and parses the JSON
// payload the model returns.
func (g Generator) Generate(ctx context.Context, provider Provider, report any) (map[string]any, error) {
	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding stats for %s: %w", g.Name, err)
	}

	response, err := provider.Generate(ctx, g.prompt(string(encoded)))
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", g.Name, err)
	}
	if response == "" {
		return map[string]any{}, nil
	}

	parsed, err := parseJSONResponse(response)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", g.Name, err)
	}
	return parsed, nil
}

// GenerateAll runs every generator. A failed generator degrades to an empty
// section with a warning; it never aborts the user's report.
func GenerateAll(ctx context.Context, provider Provider, report any) map[string]any {
	content := make(map[string]any)
	for _, g := range Generators() {
		section, err := g.Generate(ctx, provider, report)
		if err != nil {
			fmt.Printf("Warning: failed to generate %s: %v\n", g.Name, err)
			section = map[string]any{}
		}
		content[g.Name] = section
	}
	return content
}

// parseJSONResponse decodes a model response, stripping a markdown code
// fence if the model wrapped its JSON in one.
func parseJSONResponse(response string) (map[string]any, error) {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	response = strings.TrimSpace(response)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func narrativePrompt(statsJSON string) string {
	return fmt.Sprintf(`You are writing a wrapped-style narrative for a user's listening year.

User Stats:
%s

Create a playful, humorous narrative that tells the story of their year through music.
Make it personal, fun, and slightly irreverent.

Return ONLY valid JSON in this format:
{
    "narrative": "Your musical journey..."
}
`, statsJSON)
}

func personalityPrompt(statsJSON string) string {
	return fmt.Sprintf(`You are creating a music personality type for a user based on their listening habits.

User Stats:
%s

Create a funny, creative personality type that captures their listening patterns. Think Myers-Briggs meets music taste.

Return ONLY valid JSON in this format:
{
    "type": "The Chaos Agent",
    "tagline": "Your playlists have trust issues",
    "description": "You listen to everything...",
    "spirit_animal": "A caffeinated raccoon"
}
`, statsJSON)
}

func roastPrompt(statsJSON string) string {
	return fmt.Sprintf(`You are creating playful roasts for a user based on their listening habits.

User Stats:
%s

Create 3-5 funny, light-hearted roasts about their music taste or listening patterns.
Keep it fun and not mean-spirited.

Return ONLY valid JSON in this format:
{
    "roasts": [
        "Your 2am listening habits are concerning",
        "Another roast here..."
    ]
}
`, statsJSON)
}

func auraPrompt(statsJSON string) string {
	return fmt.Sprintf(`You are creating a "music aura" for a user based on their listening habits.

User Stats:
%s

Create a creative aura color and vibe that represents their musical energy. Think astrology but for music taste.

Return ONLY valid JSON in this format:
{
    "color": "Midnight Purple",
    "hex": "#9B59B6",
    "vibe": "Mysterious and moody",
    "description": "Your aura radiates..."
}
`, statsJSON)
}

func superlativesPrompt(statsJSON string) string {
	return fmt.Sprintf(`You are creating music superlatives/awards for a user based on their listening habits.

User Stats:
%s

Create 3-5 funny, creative awards like "Most Likely To..." or "Best..." based on their listening patterns.

Return ONLY valid JSON in this format:
{
    "superlatives": [
        {"award": "Most Likely To Cry At A Concert", "reason": "..."}
    ]
}
`, statsJSON)
}

func hotTakesPrompt(statsJSON string) string {
	return fmt.Sprintf(`You are creating spicy hot takes about a user's music taste.

User Stats:
%s

Create 3-5 bold, funny hot takes about their listening year.

Return ONLY valid JSON in this format:
{
    "hot_takes": [
        "A hot take here..."
    ]
}
`, statsJSON)
}

func suggestionsPrompt(statsJSON string) string {
	return fmt.Sprintf(`You are suggesting music for a user based on their listening habits.

User Stats:
%s

Suggest 3-5 artists or albums they might enjoy next year, with a short reason each.

Return ONLY valid JSON in this format:
{
    "suggestions": [
        {"name": "Artist or album", "reason": "..."}
    ]
}
`, statsJSON)
}
