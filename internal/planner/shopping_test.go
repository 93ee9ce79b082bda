package planner_test

import (
	"reflect"
	"testing"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/planner"
)

func shoppingCatalog() []model.Meal {
	oats := model.Ingredient{ID: "oats", Name: "Rolled oats", Category: "Pantry", Unit: "g", Kcal: 3.8}
	milk := model.Ingredient{ID: "milk", Name: "Milk", Category: "dairy", Unit: "ml", Kcal: 0.6}
	zucchini := model.Ingredient{ID: "zucchini", Name: "Zucchini", Category: "produce", Unit: "pc", Kcal: 30}
	apple := model.Ingredient{ID: "apple", Name: "Apple", Category: "produce", Unit: "pc", Kcal: 80}
	bread := model.Ingredient{ID: "bread", Name: "Sourdough", Category: "Bakery", Unit: "slice", Kcal: 120}
	salt := model.Ingredient{ID: "salt", Name: "Salt", Unit: "g"}

	return []model.Meal{
		{ID: "porridge", Type: model.MealBreakfast, Ingredients: []model.QuantifiedIngredient{
			{Ingredient: oats, Quantity: 60},
			{Ingredient: milk, Quantity: 250},
		}},
		{ID: "stew", Type: model.MealDinner, Ingredients: []model.QuantifiedIngredient{
			{Ingredient: zucchini, Quantity: 2},
			{Ingredient: salt, Quantity: 1.5},
			{Ingredient: apple, Quantity: 1},
		}},
		{ID: "toast", Type: model.MealSnack, Ingredients: []model.QuantifiedIngredient{
			{Ingredient: bread, Quantity: 2},
			{Ingredient: apple, Quantity: 0.5},
		}},
	}
}

func TestAggregateShoppingEmptyInputs(t *testing.T) {
	t.Parallel()
	if got := planner.AggregateShopping(nil, shoppingCatalog()); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list for empty schedule, got %#v", got)
	}
	if got := planner.AggregateShopping([]model.ScheduleDay{dayWith(0, "porridge")}, nil); len(got) != 0 {
		t.Fatalf("expected empty list for empty catalog, got %#v", got)
	}
}

func TestAggregateShoppingSumsAndOrders(t *testing.T) {
	t.Parallel()
	schedule := []model.ScheduleDay{
		dayWith(0, "porridge", "stew", "toast"),
		dayWith(1, "porridge", "deleted-meal", "", "stew"),
	}
	got := planner.AggregateShopping(schedule, shoppingCatalog())

	var categories []string
	for _, c := range got {
		categories = append(categories, c.Category)
	}
	want := []string{"Bakery", "dairy", "Other", "Pantry", "produce"}
	if !reflect.DeepEqual(categories, want) {
		t.Fatalf("categories = %v, want %v", categories, want)
	}

	produce := got[4].Items
	if len(produce) != 2 || produce[0].ID != "zucchini" || produce[1].ID != "apple" {
		t.Fatalf("expected insertion order zucchini, apple; got %+v", produce)
	}
	if produce[0].Quantity != 4 {
		t.Fatalf("zucchini quantity = %v, want 4", produce[0].Quantity)
	}
	if produce[1].Quantity != 2.5 {
		t.Fatalf("apple quantity = %v, want 2.5", produce[1].Quantity)
	}
	if got[2].Items[0].Name != "Salt" || got[2].Items[0].Category != "Other" {
		t.Fatalf("expected uncategorized salt under Other, got %+v", got[2].Items)
	}
	if got[3].Items[0].Quantity != 120 {
		t.Fatalf("oats quantity = %v, want 120", got[3].Items[0].Quantity)
	}
}

func TestAggregateShoppingRoundsOnlyAtOutput(t *testing.T) {
	t.Parallel()
	pinch := model.Ingredient{ID: "saffron", Name: "Saffron", Category: "Spices", Unit: "g"}
	meals := []model.Meal{{ID: "rice", Ingredients: []model.QuantifiedIngredient{{Ingredient: pinch, Quantity: 0.004}}}}
	schedule := []model.ScheduleDay{dayWith(0, "rice", "rice", "rice")}

	got := planner.AggregateShopping(schedule, meals)
	if len(got) != 1 || len(got[0].Items) != 1 {
		t.Fatalf("unexpected aggregate %#v", got)
	}
	// Rounding each addition would give 0.
	if got[0].Items[0].Quantity != 0.01 {
		t.Fatalf("quantity = %v, want 0.01", got[0].Items[0].Quantity)
	}

	meals[0].Ingredients[0].Quantity = 0.005
	got = planner.AggregateShopping(schedule, meals)
	if want := model.Round2(0.005 + 0.005 + 0.005); got[0].Items[0].Quantity != want {
		t.Fatalf("quantity = %v, want %v", got[0].Items[0].Quantity, want)
	}
}

func TestAggregateShoppingFallsBackToNameSlug(t *testing.T) {
	t.Parallel()
	oil := model.Ingredient{Name: "Olive Oil!", Category: "Pantry", Unit: "tbsp"}
	meals := []model.Meal{
		{ID: "a", Ingredients: []model.QuantifiedIngredient{{Ingredient: oil, Quantity: 1}}},
		{ID: "b", Ingredients: []model.QuantifiedIngredient{{Ingredient: oil, Quantity: 2}}},
	}
	got := planner.AggregateShopping([]model.ScheduleDay{dayWith(0, "a", "b")}, meals)
	if len(got) != 1 || len(got[0].Items) != 1 {
		t.Fatalf("expected one merged row, got %#v", got)
	}
	item := got[0].Items[0]
	if item.ID != "olive-oil" || item.Quantity != 3 {
		t.Fatalf("unexpected merged item %+v", item)
	}
}

func TestAggregateShoppingIdempotentAndAdditive(t *testing.T) {
	t.Parallel()
	meals := shoppingCatalog()
	a := []model.ScheduleDay{dayWith(0, "porridge", "stew")}
	b := []model.ScheduleDay{dayWith(1, "toast", "stew", "porridge")}

	if !reflect.DeepEqual(planner.AggregateShopping(a, meals), planner.AggregateShopping(a, meals)) {
		t.Fatalf("expected identical aggregates for identical input")
	}

	totals := func(list []model.ShoppingCategory) map[string]float64 {
		out := map[string]float64{}
		for _, c := range list {
			for _, it := range c.Items {
				out[c.Category+"/"+it.ID] += it.Quantity
			}
		}
		return out
	}
	union := totals(planner.AggregateShopping(append(append([]model.ScheduleDay{}, a...), b...), meals))
	sum := totals(planner.AggregateShopping(a, meals))
	for k, v := range totals(planner.AggregateShopping(b, meals)) {
		sum[k] += v
	}
	if len(union) != len(sum) {
		t.Fatalf("key sets differ: %v vs %v", union, sum)
	}
	for k, v := range union {
		if model.Round2(sum[k]) != v {
			t.Fatalf("%s: union %v, sum %v", k, v, sum[k])
		}
	}
}

func TestAggregateShoppingCategoryOrderIgnoresDayOrder(t *testing.T) {
	t.Parallel()
	meals := shoppingCatalog()
	forward := []model.ScheduleDay{dayWith(0, "stew"), dayWith(1, "toast"), dayWith(2, "porridge")}
	reverse := []model.ScheduleDay{forward[2], forward[1], forward[0]}

	names := func(list []model.ShoppingCategory) []string {
		out := make([]string, 0, len(list))
		for _, c := range list {
			out = append(out, c.Category)
		}
		return out
	}
	if !reflect.DeepEqual(names(planner.AggregateShopping(forward, meals)), names(planner.AggregateShopping(reverse, meals))) {
		t.Fatalf("category order depends on day order")
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Greek Yogurt":     "greek-yogurt",
		"  --Chili  Oil--": "chili-oil",
		"Crème fraîche":    "cr-me-fra-che",
		"":                 "",
	}
	for in, want := range cases {
		if got := planner.Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAggregateShoppingKeepsNamesWithEmptySlug(t *testing.T) {
	t.Parallel()
	matcha := model.Ingredient{Name: "抹茶", Category: "Pantry", Unit: "g"}
	meals := []model.Meal{{ID: "latte", Type: model.MealSnack, Ingredients: []model.QuantifiedIngredient{
		{Ingredient: matcha, Quantity: 5},
	}}}

	got := planner.AggregateShopping([]model.ScheduleDay{dayWith(0, "", "", "latte"), dayWith(1, "", "", "latte")}, meals)
	if len(got) != 1 || len(got[0].Items) != 1 {
		t.Fatalf("expected one Pantry item, got %#v", got)
	}
	item := got[0].Items[0]
	if item.Name != "抹茶" || item.ID != "" || item.Quantity != 10 {
		t.Fatalf("unexpected item %+v", item)
	}
}
