package creatures

import (
	"strings"

	"github.com/fentz26/critterfocus/internal/models"
)

// Category is a known creature category. Unknown categories get the default look.
type Category string

const (
	CategoryMusic    Category = "music"
	CategoryStudy    Category = "study"
	CategoryFitness  Category = "fitness"
	CategoryArt      Category = "art"
	CategoryCooking  Category = "cooking"
	CategoryReading  Category = "reading"
	CategoryGaming   Category = "gaming"
	CategoryLanguage Category = "language"
	CategoryCoding   Category = "coding"
	CategoryGarden   Category = "garden"
)

// KnownCategories lists every category with a dedicated appearance.
func KnownCategories() []Category {
	return []Category{
		CategoryMusic, CategoryStudy, CategoryFitness, CategoryArt, CategoryCooking,
		CategoryReading, CategoryGaming, CategoryLanguage, CategoryCoding, CategoryGarden,
	}
}

// ParseCategory maps free-form input onto a Category, case-insensitively.
func ParseCategory(s string) Category {
	return Category(models.NormalizeKey(s))
}

// DefaultAppearance is used for categories without a dedicated look.
func DefaultAppearance() models.Appearance {
	return models.Appearance{
		Emoji:          "🐾",
		BaseColor:      "#6b7280",
		SecondaryColor: "#9ca3af",
		Description:    "A loyal productivity partner",
		Accessories:    []string{"Collar"},
		Traits:         []string{"Loyal", "Friendly", "Adaptable"},
	}
}

// AppearanceFor returns the look of a creature of category c.
func AppearanceFor(c Category) models.Appearance {
	switch c {
	case CategoryMusic:
		return models.Appearance{
			Emoji: "🎤", BaseColor: "#9333ea", SecondaryColor: "#c084fc",
			Description: "Hums along to every focused minute",
			Accessories: []string{"Headphones", "Tiny Microphone"},
			Traits:      []string{"Musical", "Rhythmic", "Harmonious"},
		}
	case CategoryStudy:
		return models.Appearance{
			Emoji: "🦉", BaseColor: "#2563eb", SecondaryColor: "#60a5fa",
			Description: "A night owl that loves a good textbook",
			Accessories: []string{"Reading Glasses", "Graduation Cap"},
			Traits:      []string{"Wise", "Focused", "Analytical"},
		}
	case CategoryFitness:
		return models.Appearance{
			Emoji: "🐯", BaseColor: "#dc2626", SecondaryColor: "#f87171",
			Description: "Never skips leg day",
			Accessories: []string{"Sweatband", "Water Bottle"},
			Traits:      []string{"Strong", "Energetic", "Healthy"},
		}
	case CategoryArt:
		return models.Appearance{
			Emoji: "🦋", BaseColor: "#ea580c", SecondaryColor: "#fb923c",
			Description: "Paints its wings a new color every day",
			Accessories: []string{"Beret", "Paintbrush"},
			Traits:      []string{"Creative", "Colorful", "Imaginative"},
		}
	case CategoryCooking:
		return models.Appearance{
			Emoji: "🐻", BaseColor: "#ca8a04", SecondaryColor: "#facc15",
			Description: "Always has something simmering",
			Accessories: []string{"Chef Hat", "Wooden Spoon"},
			Traits:      []string{"Tasty", "Nurturing", "Flavorful"},
		}
	case CategoryReading:
		return models.Appearance{
			Emoji: "🐙", BaseColor: "#059669", SecondaryColor: "#34d399",
			Description: "Reads eight books at once",
			Accessories: []string{"Bookmark", "Reading Lamp"},
			Traits:      []string{"Literary", "Thoughtful", "Curious"},
		}
	case CategoryGaming:
		return models.Appearance{
			Emoji: "🦊", BaseColor: "#7c3aed", SecondaryColor: "#a78bfa",
			Description: "Speedruns every to-do list",
			Accessories: []string{"Controller", "Headset"},
			Traits:      []string{"Playful", "Strategic", "Quick"},
		}
	case CategoryLanguage:
		return models.Appearance{
			Emoji: "🦜", BaseColor: "#059669", SecondaryColor: "#34d399",
			Description: "Repeats new words until they stick",
			Accessories: []string{"Phrasebook", "Passport"},
			Traits:      []string{"Communicative", "Expressive", "Social"},
		}
	case CategoryCoding:
		return models.Appearance{
			Emoji: "🤖", BaseColor: "#1f2937", SecondaryColor: "#6b7280",
			Description: "Compiles happiness from finished tasks",
			Accessories: []string{"Keyboard", "Rubber Duck"},
			Traits:      []string{"Logical", "Precise", "Innovative"},
		}
	case CategoryGarden:
		return models.Appearance{
			Emoji: "🐰", BaseColor: "#16a34a", SecondaryColor: "#4ade80",
			Description: "Grows a little every day",
			Accessories: []string{"Straw Hat", "Watering Can"},
			Traits:      []string{"Patient", "Growing", "Natural"},
		}
	default:
		return DefaultAppearance()
	}
}

// NameFor builds the default creature name for a raw category string.
func NameFor(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return "Buddy"
	}
	r := []rune(category)
	return strings.ToUpper(string(r[:1])) + string(r[1:]) + " Buddy"
}
