package factories

import (
	"fmt"
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/service"
)

type ingredientSpec struct {
	name, category, unit      string
	kcal, protein, carbs, fat float64
	// qtyMin/qtyMax bound a realistic serving in the ingredient's unit.
	qtyMin, qtyMax int
}

// Per-unit values; "g" units are per gram.
var demoIngredients = []ingredientSpec{
	{"Rolled oats", "Grains", "g", 3.89, 0.169, 0.663, 0.069, 40, 90},
	{"Whole wheat bread", "Bakery", "slice", 81, 4, 13.8, 1.1, 1, 3},
	{"Brown rice", "Grains", "g", 1.12, 0.026, 0.236, 0.009, 120, 250},
	{"Whole wheat pasta", "Grains", "g", 1.49, 0.058, 0.3, 0.017, 100, 200},
	{"Sweet potato", "Produce", "g", 0.86, 0.016, 0.201, 0.001, 100, 250},
	{"Egg", "Dairy & Eggs", "piece", 72, 6.3, 0.4, 4.8, 1, 4},
	{"Greek yogurt", "Dairy & Eggs", "g", 0.97, 0.09, 0.036, 0.05, 100, 250},
	{"Cottage cheese", "Dairy & Eggs", "g", 0.98, 0.11, 0.034, 0.043, 80, 200},
	{"Milk", "Dairy & Eggs", "ml", 0.42, 0.034, 0.05, 0.01, 100, 300},
	{"Chicken breast", "Meat & Fish", "g", 1.65, 0.31, 0, 0.036, 120, 220},
	{"Salmon fillet", "Meat & Fish", "g", 2.08, 0.2, 0, 0.13, 100, 200},
	{"Lean ground beef", "Meat & Fish", "g", 1.76, 0.2, 0, 0.1, 100, 200},
	{"Tofu", "Plant protein", "g", 1.44, 0.17, 0.028, 0.087, 100, 200},
	{"Lentils", "Plant protein", "g", 1.16, 0.09, 0.2, 0.004, 100, 250},
	{"Broccoli", "Produce", "g", 0.34, 0.028, 0.066, 0.004, 80, 200},
	{"Spinach", "Produce", "g", 0.23, 0.029, 0.036, 0.004, 30, 100},
	{"Banana", "Produce", "piece", 105, 1.3, 27, 0.4, 1, 2},
	{"Apple", "Produce", "piece", 95, 0.5, 25, 0.3, 1, 2},
	{"Blueberries", "Produce", "g", 0.57, 0.007, 0.145, 0.003, 50, 150},
	{"Almonds", "Nuts & Seeds", "g", 5.79, 0.21, 0.22, 0.5, 15, 40},
	{"Peanut butter", "Nuts & Seeds", "g", 5.88, 0.25, 0.2, 0.5, 15, 35},
	{"Olive oil", "Pantry", "tbsp", 119, 0, 0, 13.5, 1, 2},
	{"Honey", "Pantry", "tbsp", 64, 0.1, 17, 0, 1, 2},
	{"Whey protein", "Supplements", "scoop", 120, 24, 3, 1.5, 1, 2},
}

var mealRecipes = map[model.MealType][][]string{
	model.MealBreakfast: {
		{"Rolled oats", "Milk", "Blueberries", "Honey"},
		{"Egg", "Whole wheat bread", "Spinach"},
		{"Greek yogurt", "Blueberries", "Almonds"},
		{"Rolled oats", "Whey protein", "Banana", "Peanut butter"},
		{"Cottage cheese", "Apple", "Honey"},
	},
	model.MealLunch: {
		{"Chicken breast", "Brown rice", "Broccoli", "Olive oil"},
		{"Lentils", "Sweet potato", "Spinach", "Olive oil"},
		{"Salmon fillet", "Whole wheat pasta", "Spinach"},
		{"Tofu", "Brown rice", "Broccoli"},
	},
	model.MealSnack: {
		{"Apple", "Peanut butter"},
		{"Greek yogurt", "Honey"},
		{"Banana", "Almonds"},
		{"Whey protein", "Milk"},
		{"Cottage cheese", "Blueberries"},
	},
	model.MealDinner: {
		{"Lean ground beef", "Whole wheat pasta", "Spinach"},
		{"Salmon fillet", "Sweet potato", "Broccoli", "Olive oil"},
		{"Chicken breast", "Sweet potato", "Spinach"},
		{"Tofu", "Whole wheat pasta", "Broccoli", "Olive oil"},
	},
}

var (
	mealAdjectives = []string{"Hearty", "Quick", "Classic", "Power", "Green", "Simple", "Weekday", "Sunday"}
	mealNouns      = map[model.MealType][]string{
		model.MealBreakfast: {"Bowl", "Plate", "Scramble", "Parfait"},
		model.MealLunch:     {"Bowl", "Plate", "Box", "Salad"},
		model.MealSnack:     {"Bites", "Cup", "Snack", "Mix"},
		model.MealDinner:    {"Plate", "Skillet", "Tray Bake", "Pasta"},
	}
	instructionBlocks = []string{"Prep", "Cook", "Serve"}
)

type CatalogFactory struct {
	fake faker.Faker
	rng  *rand.Rand
}

// NewCatalogFactory returns a factory whose output is fully determined by seed.
func NewCatalogFactory(seed int64) *CatalogFactory {
	return &CatalogFactory{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// CreateCatalog builds a demo ingredient catalog and mealsPerType meals for each
// meal type. Ingredient ids are fresh cuids so seeding twice never collides.
func (f *CatalogFactory) CreateCatalog(mealsPerType int) *service.Catalog {
	if mealsPerType <= 0 {
		mealsPerType = 4
	}
	c := &service.Catalog{Version: service.CatalogVersion}
	byName := make(map[string]service.IngredientRecord, len(demoIngredients))
	specs := make(map[string]ingredientSpec, len(demoIngredients))
	for _, spec := range demoIngredients {
		rec := service.IngredientRecord{
			ID:             cuid.New(),
			Name:           spec.name,
			Category:       spec.category,
			Unit:           spec.unit,
			Kcal:           spec.kcal,
			ProteinPerUnit: spec.protein,
			CarbPerUnit:    spec.carbs,
			LipidPerUnit:   spec.fat,
		}
		byName[spec.name] = rec
		specs[spec.name] = spec
		c.Ingredients = append(c.Ingredients, rec)
	}

	for _, mealType := range model.MealTypes {
		recipes := mealRecipes[mealType]
		for i := 0; i < mealsPerType; i++ {
			recipe := recipes[f.rng.Intn(len(recipes))]
			meal := service.MealRecord{
				ID:   cuid.New(),
				Name: f.mealName(mealType, recipe),
				Type: string(mealType),
			}
			for _, name := range recipe {
				rec, spec := byName[name], specs[name]
				meal.Ingredients = append(meal.Ingredients, service.MealIngredientRecord{
					ItemID:   rec.ID,
					ItemName: rec.Name,
					ItemUnit: rec.Unit,
					Quantity: f.quantity(spec),
				})
			}
			meal.Instructions = f.instructions(recipe)
			c.Meals = append(c.Meals, meal)
		}
	}
	return c
}

func (f *CatalogFactory) mealName(mealType model.MealType, recipe []string) string {
	adjective := f.fake.RandomStringElement(mealAdjectives)
	noun := f.fake.RandomStringElement(mealNouns[mealType])
	return fmt.Sprintf("%s %s %s", adjective, recipe[0], noun)
}

// quantity rounds gram and millilitre servings to 5 and counts to whole units.
func (f *CatalogFactory) quantity(spec ingredientSpec) float64 {
	q := f.fake.IntBetween(spec.qtyMin, spec.qtyMax)
	if spec.unit == "g" || spec.unit == "ml" {
		q = (q + 2) / 5 * 5
	}
	return float64(q)
}

func (f *CatalogFactory) instructions(recipe []string) []model.InstructionBlock {
	count := f.fake.IntBetween(1, len(instructionBlocks))
	blocks := make([]model.InstructionBlock, 0, count)
	for i := 0; i < count; i++ {
		n := f.fake.IntBetween(1, 2)
		steps := make([]string, 0, n)
		for j := 0; j < n; j++ {
			steps = append(steps, fmt.Sprintf("%s the %s.", f.fake.RandomStringElement([]string{"Prepare", "Weigh", "Combine", "Season"}), recipe[f.rng.Intn(len(recipe))]))
		}
		blocks = append(blocks, model.InstructionBlock{Name: instructionBlocks[i], Steps: steps})
	}
	return blocks
}
