package normalizer

import "heatmap/internal/models"

// bucket groups narrow slaughter flags under one coarse label.
type bucket struct {
	label   string
	columns []string
}

// slaughterBuckets is evaluated top to bottom. A label is emitted at most once.
var slaughterBuckets = []bucket{
	{"Cattle (Cows, Bulls)", flags("beef_cow", "steer", "heifer", "bull_stag", "dairy_cow")},
	{"Calves (Veal)", flags("heavy_calf", "bob_veal", "formula_fed_veal", "non_formula_fed_veal")},
	{"Pigs", flags("market_swine", "sow", "roaster_swine", "boar_stag_swine", "stag_swine", "feral_swine")},
	{"Goats", flags("goat", "young_goat", "adult_goat")},
	{"Sheep & Lambs", flags("sheep", "lamb")},
	{"Deer & Reindeer", flags("deer_reindeer")},
	{"Antelope", flags("antelope")},
	{"Elk", flags("elk")},
	{"Bison & Buffalo", flags("bison", "buffalo", "water_buffalo", "cattalo")},
	{"Yak", flags("yak")},
	{"Other Livestock", flags("other_voluntary_livestock")},
	{"Rabbits", flags("rabbit")},

	{"Chickens", flags("young_chicken", "light_fowl", "heavy_fowl", "capon")},
	{"Turkeys", flags("young_turkey", "young_breeder_turkey", "old_breeder_turkey", "fryer_roaster_turkey")},
	{"Ducks", flags("duck")},
	{"Geese", flags("goose")},
	{"Pheasants", flags("pheasant")},
	{"Quail", flags("quail")},
	{"Guinea Fowl", flags("guinea")},
	{"Ratites (Ostrich, Emu, etc.)", flags("ostrich", "emu", "rhea")},
	{"Pigeons (Squab)", flags("squab")},
	{"Other Poultry", flags("other_voluntary_poultry")},
}

func flags(species ...string) []string {
	cols := make([]string, len(species))
	for i, s := range species {
		cols[i] = s + "_slaughter"
	}

	return cols
}

// processedSpecies maps each processing flag to its own label, in output order.
var processedSpecies = []struct {
	column string
	label  string
}{
	{"beef_processing", "Beef"},
	{"pork_processing", "Pork"},
	{"antelope_processing", "Antelope"},
	{"bison_processing", "Bison"},
	{"buffalo_processing", "Buffalo"},
	{"deer_processing", "Deer"},
	{"elk_processing", "Elk"},
	{"goat_processing", "Goat"},
	{"other_voluntary_livestock_processing", "Other Voluntary Livestock"},
	{"rabbit_processing", "Rabbit"},
	{"reindeer_processing", "Reindeer"},
	{"sheep_processing", "Sheep"},
	{"yak_processing", "Yak"},
	{"chicken_processing", "Chicken"},
	{"duck_processing", "Duck"},
	{"goose_processing", "Goose"},
	{"pigeon_processing", "Pigeon"},
	{"ratite_processing", "Ratite (Ostrich/Emu)"},
	{"turkey_processing", "Turkey"},
	{"exotic_poultry_processing", "Exotic Poultry"},
	{"other_voluntary_poultry_processing", "Other Voluntary Poultry"},
}

// testedSpecies lists the registrant count columns. Each column name is also its label.
var testedSpecies = models.RegistrantCountColumns
