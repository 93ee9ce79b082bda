package planner

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/saadjs/mealplan-cli/internal/model"
)

const defaultShoppingCategory = "Other"

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(value string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(value), "-"), "-")
}

// IngredientKey is the shopping deduplication key: the id, or a slug of the name.
// Names with no ASCII letters or digits slug to "" and share that key.
func IngredientKey(item model.Ingredient) string {
	if id := strings.TrimSpace(item.ID); id != "" {
		return id
	}
	return Slugify(item.Name)
}

type shoppingRow struct {
	item  model.Ingredient
	total float64
}

type shoppingBucket struct {
	keys []string
	rows map[string]*shoppingRow
}

// AggregateShopping sums ingredient quantities for every scheduled slot whose meal
// exists in meals. Categories are ordered by locale collation; items keep the
// order in which they were first encountered. Quantities are rounded once, at output.
func AggregateShopping(schedule []model.ScheduleDay, meals []model.Meal) []model.ShoppingCategory {
	out := make([]model.ShoppingCategory, 0)
	if len(schedule) == 0 || len(meals) == 0 {
		return out
	}

	byID := IndexMeals(meals)
	buckets := map[string]*shoppingBucket{}
	categories := make([]string, 0)

	for _, day := range schedule {
		for _, slot := range day.Slots {
			if slot.MealID == "" {
				continue
			}
			meal, ok := byID[slot.MealID]
			if !ok {
				continue
			}
			for _, entry := range meal.Ingredients {
				item := entry.Ingredient
				key := IngredientKey(item)
				category := strings.TrimSpace(item.Category)
				if category == "" {
					category = defaultShoppingCategory
				}
				bucket, ok := buckets[category]
				if !ok {
					bucket = &shoppingBucket{rows: map[string]*shoppingRow{}}
					buckets[category] = bucket
					categories = append(categories, category)
				}
				row, ok := bucket.rows[key]
				if !ok {
					row = &shoppingRow{item: item}
					bucket.rows[key] = row
					bucket.keys = append(bucket.keys, key)
				}
				row.total += model.SafeQuantity(entry.Quantity)
			}
		}
	}

	col := collate.New(language.Und)
	sort.SliceStable(categories, func(i, j int) bool {
		return col.CompareString(categories[i], categories[j]) < 0
	})

	for _, category := range categories {
		bucket := buckets[category]
		items := make([]model.ShoppingItem, 0, len(bucket.keys))
		for _, key := range bucket.keys {
			row := bucket.rows[key]
			items = append(items, model.ShoppingItem{
				ID:       key,
				Name:     row.item.Name,
				Unit:     row.item.Unit,
				Quantity: model.Round2(row.total),
				Category: category,
			})
		}
		out = append(out, model.ShoppingCategory{Category: category, Items: items})
	}
	return out
}

// IndexMeals maps meal ids to meals. Later duplicates win, like a map literal.
func IndexMeals(meals []model.Meal) map[string]model.Meal {
	out := make(map[string]model.Meal, len(meals))
	for _, meal := range meals {
		if meal.ID == "" {
			continue
		}
		out[meal.ID] = meal
	}
	return out
}
