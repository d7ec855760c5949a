package catalog

// PresetComment is a canned comment users pick from. Free-form comment
// text is not accepted anywhere.
type PresetComment struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

var presetComments = []PresetComment{
	{ID: 1, Text: "Harika görünüyor! 🌟"},
	{ID: 2, Text: "Çok yeteneklisin! 👏"},
	{ID: 3, Text: "Bayıldım! 😍"},
	{ID: 4, Text: "Kullandığın renkler müthiş! 🎨"},
	{ID: 5, Text: "Çizimlerin çok gerçekçi! ✨"},
}

// PresetComments returns the catalog in display order.
func PresetComments() []PresetComment {
	out := make([]PresetComment, len(presetComments))
	copy(out, presetComments)
	return out
}

// PresetText resolves a preset ID to its current text. Comments persist
// only the ID, so retired presets resolve to ok=false and render empty.
func PresetText(id int) (string, bool) {
	for _, p := range presetComments {
		if p.ID == id {
			return p.Text, true
		}
	}
	return "", false
}
