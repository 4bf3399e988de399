package lumen

type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Color    string `json:"color"`
	Order    int    `json:"order"`
	IsActive bool   `json:"isActive"`
}

// CategoryStyle is the presentation data kept on the client side; the store
// only persists id, order and the active flag.
type CategoryStyle struct {
	Name  string
	Emoji string
	Color string
}

const OtherCategoryID = "other"

// CategoryIDs lists the supported categories in display order.
var CategoryIDs = []string{
	"relationships",
	"family",
	"work",
	"education",
	"financial",
	"health",
	"loneliness",
	"anxiety",
	OtherCategoryID,
}

var categoryStyles = map[string]CategoryStyle{
	"relationships": {Name: "Relationships", Emoji: "💔", Color: "#FF6B6B"},
	"family":        {Name: "Family", Emoji: "👨‍👩‍👧‍👦", Color: "#4ECDC4"},
	"work":          {Name: "Work/Career", Emoji: "💼", Color: "#45B7D1"},
	"education":     {Name: "School/Education", Emoji: "📚", Color: "#96CEB4"},
	"financial":     {Name: "Money", Emoji: "💰", Color: "#FFEAA7"},
	"health":        {Name: "Health", Emoji: "🏥", Color: "#DDA0DD"},
	"loneliness":    {Name: "Loneliness", Emoji: "😔", Color: "#87CEEB"},
	"anxiety":       {Name: "Anxiety/Stress", Emoji: "😰", Color: "#F0E68C"},
	OtherCategoryID: {Name: "Other", Emoji: "💭", Color: "#C0C0C0"},
}

// CategoryInfo returns the style for id, falling back to "other".
func CategoryInfo(id string) CategoryStyle {
	if style, ok := categoryStyles[id]; ok {
		return style
	}
	return categoryStyles[OtherCategoryID]
}

// NewCategory decorates stored category fields with their style.
func NewCategory(id string, order int, active bool) Category {
	style := CategoryInfo(id)
	return Category{
		ID:       id,
		Name:     style.Name,
		Emoji:    style.Emoji,
		Color:    style.Color,
		Order:    order,
		IsActive: active,
	}
}

// DefaultCategories is the built-in catalog used for seeding and as a
// fallback when the store is unavailable.
func DefaultCategories() []Category {
	out := make([]Category, 0, len(CategoryIDs))
	for i, id := range CategoryIDs {
		out = append(out, NewCategory(id, i+1, true))
	}
	return out
}
