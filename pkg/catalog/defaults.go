package catalog

// NoShock is the sentinel shock name recorded for a season without a shock.
const NoShock = "None"

const (
	CategorySeeds       = "Seeds"
	CategoryPest        = "Pest & Disease"
	CategorySoil        = "Soil & Nutrients"
	CategoryWater       = "Water & Irrigation"
	CategoryLand        = "Land"
	CategoryRisk        = "Risk & Information"
	CategoryMechanized  = "Mechanization"
	CategoryFarmProtect = "Farm Protection"
)

// DefaultPractices is the built-in practice list.
var DefaultPractices = []Practice{
	{ID: 1, Name: "Buy certified paddy seeds", Weight: 0.4, Category: CategorySeeds},
	{ID: 2, Name: "Use pesticides/fungicides (only when needed, as per IPM advice)", Weight: 0.2, Category: CategoryPest},
	{ID: 3, Name: "Balanced fertilizer use (small, need-based doses instead of excess)", Weight: 0.4, Category: CategorySoil},
	{ID: 4, Name: "Zinc sulfate for rice (common deficiency, low cost, high yield impact)", Weight: 0.4, Category: CategorySoil},
	{ID: 5, Name: "IPM - Pheromone/sticky traps for pest control (low cost)", Weight: 0.2, Category: CategoryPest},
	{ID: 6, Name: "IPM- neem sprays", Weight: 0.2, Category: CategoryPest},
	{ID: 7, Name: "Apply organic manure (farmyard manure, cow dung, vermicompost, dhaincha green manure)", Weight: 0.07, Category: CategorySoil},
	{ID: 8, Name: "Regular soil and water testing (often free at KVKs)", Weight: 0.07, Category: CategorySoil},
	{ID: 9, Name: "Proper bund and drainage maintenance using family/community labor", Weight: 0.15, Category: CategoryWater},
	{ID: 10, Name: "Live fencing (bamboo, thorn bushes) to prevent animals from entering fields", Weight: 0.13, Category: CategoryFarmProtect},
	{ID: 11, Name: "Use free govt. apps for prices and weather (Kisan Suvidha, mKisan)", Weight: 0.13, Category: CategoryRisk},
	{ID: 12, Name: "Consult with KVK experts", Weight: 0.2, Category: CategoryRisk},
	{ID: 13, Name: "Mulching (paddy straw mulch)", Weight: 0.2, Category: CategorySoil},
	{ID: 14, Name: "Lease small extra plots of land seasonally", Weight: 0.05, Category: CategoryLand},
	{ID: 15, Name: "Convert fallow/waste land into cultivation (if available)", Weight: 0.05, Category: CategoryLand},
	{ID: 16, Name: "Tube well or small borewell", Weight: 0.15, Category: CategoryWater},
	{ID: 17, Name: "field channels", Weight: 0.15, Category: CategoryWater},
	{ID: 18, Name: "Rainwater harvesting tanks or ponds (low-cost models, often under MGNREGA or govt. subsidy)", Weight: 0.15, Category: CategoryWater},
	{ID: 19, Name: "Solar/diesel pumps (shared among farmer groups)", Weight: 0.15, Category: CategoryWater},
	{ID: 20, Name: "Simple drainage channels (community effort with small cost)", Weight: 0.15, Category: CategoryWater},
	{ID: 21, Name: "Crop insurance", Weight: 0.13, Category: CategoryRisk},
	{ID: 22, Name: "Buying improved/hybrid paddy seed", Weight: 0.4, Category: CategorySeeds},
	{ID: 23, Name: "Solar-powered irrigation pumps", Weight: 0.15, Category: CategoryWater},
	{ID: 24, Name: "paddy transplanters, combine harvesters, tractors", Weight: 0.4, Category: CategoryMechanized},
}

// DefaultShocks is the built-in weather shock list.
var DefaultShocks = []WeatherShock{
	{Name: "Drought", Impact: -0.15},
	{Name: "Flood", Impact: -0.20},
	{Name: "Heavy Rain", Impact: -0.10},
	{Name: "Pest and Disease", Impact: -0.12},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(DefaultPractices, DefaultShocks)
	if err != nil {
		panic(err)
	}
	return c
}
