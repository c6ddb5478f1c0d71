package hotel

import "strings"

type Category string

const (
	CategoryStandard Category = "STANDARD"
	CategoryDeluxe   Category = "DELUXE"
	CategorySuite    Category = "SUITE"
)

func (c Category) String() string {
	return string(c)
}

// CategoryInfo is the read-only metadata attached to a category variant.
type CategoryInfo struct {
	DisplayName string  `json:"display_name"`
	BasePrice   float64 `json:"base_price"`
	Capacity    int     `json:"capacity"`
}

var categoryTable = map[Category]CategoryInfo{
	CategoryStandard: {DisplayName: "Standard Room", BasePrice: 100.00, Capacity: 2},
	CategoryDeluxe:   {DisplayName: "Deluxe Room", BasePrice: 150.00, Capacity: 3},
	CategorySuite:    {DisplayName: "Suite", BasePrice: 250.00, Capacity: 4},
}

func (c Category) Info() (CategoryInfo, bool) {
	info, ok := categoryTable[c]

	return info, ok
}

// ParseCategory resolves a category by its variant name, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))

	if _, ok := categoryTable[c]; !ok {
		return "", false
	}

	return c, true
}

func Categories() []Category {
	return []Category{CategoryStandard, CategoryDeluxe, CategorySuite}
}
