package mob

// #region default-catalog

// DefaultCatalog returns the stock campaign mobs. Core activity words
// carry weight 3, supporting vocabulary 2, ambient vocabulary 1.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			ID:          "active_milk_mob",
			DisplayName: "Active Milk Mob",
			Description: "Sports and fitness enthusiasts enjoying milk",
			KeywordWeights: map[string]float32{
				"sports": 3, "exercise": 3, "workout": 3, "fitness": 3,
				"gym": 2, "athlete": 2, "running": 2, "jumping": 2,
				"training": 2, "outdoor": 1, "active": 1,
			},
		},
		{
			ID:          "dance_milk_mob",
			DisplayName: "Dance Milk Mob",
			Description: "Creative dancers incorporating milk",
			KeywordWeights: map[string]float32{
				"dance": 3, "dancing": 3, "choreography": 3,
				"music": 2, "rhythm": 2, "performance": 2, "routine": 2,
				"moves": 1, "dancer": 2, "stage": 1,
			},
		},
		{
			ID:          "chef_milk_mob",
			DisplayName: "Chef Milk Mob",
			Description: "Culinary creations featuring milk",
			KeywordWeights: map[string]float32{
				"cooking": 3, "baking": 3, "recipe": 3, "chef": 3,
				"kitchen": 2, "food": 2, "culinary": 2, "ingredients": 2,
				"meal": 1, "dish": 1, "restaurant": 1, "pour": 1,
			},
		},
		{
			ID:          "comedy_milk_mob",
			DisplayName: "Comedy Milk Mob",
			Description: "Humorous and entertaining milk moments",
			KeywordWeights: map[string]float32{
				"funny": 3, "comedy": 3, "joke": 3, "prank": 3,
				"laugh": 2, "humor": 2, "laughter": 2,
				"entertaining": 1, "silly": 1, "amusing": 1, "comedic": 2,
			},
		},
		{
			ID:          "art_milk_mob",
			DisplayName: "Art Milk Mob",
			Description: "Artistic expressions with milk",
			KeywordWeights: map[string]float32{
				"painting": 3, "sculpture": 3, "drawing": 3,
				"art": 2, "artistic": 2, "design": 2, "craft": 2,
				"creative": 1, "creation": 1, "colors": 1, "visual": 1,
			},
		},
		{
			ID:          "science_milk_mob",
			DisplayName: "Science Milk Mob",
			Description: "Scientific experiments and discoveries with milk",
			KeywordWeights: map[string]float32{
				"science": 3, "experiment": 3, "laboratory": 3,
				"chemistry": 2, "physics": 2, "reaction": 2, "research": 2,
				"discovery": 1, "testing": 1, "analysis": 1,
			},
		},
		{
			ID:          "extreme_milk_mob",
			DisplayName: "Extreme Milk Mob",
			Description: "Adventurous and daring milk challenges",
			KeywordWeights: map[string]float32{
				"extreme": 3, "stunt": 3, "challenge": 3,
				"adventure": 2, "daring": 2, "dangerous": 2, "risky": 2,
				"impressive": 1, "thrilling": 1, "exciting": 1,
			},
		},
	}
}

// #endregion default-catalog
