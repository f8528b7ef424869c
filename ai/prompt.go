package ai

import (
	"encoding/json"
	"fmt"

	"github.com/yeremiapane/paradise-cafe/models"
)

const restaurantName = "Paradise Cafe and Restaurant"

func buildSuggestPrompt(query string, menu []models.MenuProjection) (string, error) {
	menuJSON, err := json.Marshal(menu)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`You are the AI Sommelier for '%s'. A guest says: %q.
Based on our menu: %s, recommend the top 2-3 items that best match their mood or preference.
Explain why each is a perfect choice in a warm, welcoming, and poetic tone.
Answer with a JSON array of objects {"itemId": string, "reason": string} using ids from the menu.`,
		restaurantName, query, menuJSON), nil
}

func buildDetailsPrompt(name string, category models.Category) string {
	return fmt.Sprintf(`Generate a mouth-watering, sophisticated menu description for a high-end restaurant dish named %q in the %q category. The description should be evocative, highlighting ingredients and textures. Suggest a premium price in Indian Rupees (INR) and dietary tags.`,
		name, string(category))
}

func buildImagePrompt(name, description string) string {
	return fmt.Sprintf(`High-end culinary photography of %s. %s. Elegant plating on luxury ceramic, moody restaurant ambient lighting, soft bokeh, 8k resolution, photorealistic, cinematic shadows.`,
		name, description)
}
