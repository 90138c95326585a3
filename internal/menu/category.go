package menu

import (
	"strings"

	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/models"
)

// Category keys
const (
	CategorySignature = "signature"
	CategoryPasta     = "pasta"
	CategorySteak     = "steak"
	CategorySalad     = "salad"
	CategoryCoffee    = "coffee"
	CategoryDrink     = "drink"
	CategoryDessert   = "dessert"
	CategoryBeer      = "beer"
	CategoryWine      = "wine"
	CategoryCocktail  = "cocktail"
	CategoryOther     = "other"
)

type categoryRule struct {
	key      string
	keywords []string
}

// checked in order; the first rule with a matching keyword wins
var categoryRules = []categoryRule{
	{CategorySteak, []string{"steak", "스테이크", "牛排"}},
	{CategoryPasta, []string{"pasta", "파스타", "意面", "意大利面"}},
	{CategorySalad, []string{"salad", "샐러드", "沙拉"}},
	{CategoryCoffee, []string{"americano", "coffee", "커피", "咖啡"}},
	{CategoryBeer, []string{"beer", "맥주", "啤酒"}},
	{CategoryWine, []string{"wine", "와인", "葡萄酒"}},
	{CategoryCocktail, []string{"cocktail", "칵테일", "鸡尾酒"}},
	{CategoryDessert, []string{"cake", "dessert", "디저트", "甜点"}},
	{CategoryDrink, []string{"drink", "음료", "饮品", "juice", "주스", "소다", "soda", "tea", "차"}},
}

var categoryLabels = map[string]string{
	CategorySignature: "시그니처",
	CategoryPasta:     "파스타",
	CategorySteak:     "스테이크",
	CategorySalad:     "샐러드",
	CategoryCoffee:    "커피",
	CategoryDrink:     "음료",
	CategoryDessert:   "디저트",
	CategoryBeer:      "맥주",
	CategoryWine:      "와인",
	CategoryCocktail:  "칵테일",
	CategoryOther:     "기타",
}

// Classify guesses a category from an item name
func Classify(text string) string {
	t := strings.ToLower(text)
	for _, r := range categoryRules {
		for _, kw := range r.keywords {
			if strings.Contains(t, kw) {
				return r.key
			}
		}
	}
	return CategoryOther
}

// languages whose text is matched against the keyword rules
var classifyLangs = []locale.Lang{locale.Default, locale.EN, locale.ZH}

// ClassifyItem guesses a category from the item's name, then its
// description, in the default, English and Chinese text.
func ClassifyItem(it models.Item) string {
	for _, field := range []locale.Text{it.Name, it.Description} {
		for _, lang := range classifyLangs {
			if v := field[lang]; v != "" {
				if c := Classify(v); c != CategoryOther {
					return c
				}
			}
		}
	}
	return CategoryOther
}

// CategoryLabel returns the display label of a category key
func CategoryLabel(key string) string {
	if l, ok := categoryLabels[key]; ok {
		return l
	}
	return key
}
