package apify

// Place é um estabelecimento devolvido pelo scraper de mapas.
type Place struct {
	PlaceID    string  `json:"placeId"`
	Title      string  `json:"title"`
	Website    string  `json:"website"`
	Phone      string  `json:"phoneNumber"`
	Address    string  `json:"address"`
	TotalScore float64 `json:"totalScore"`
}

type runInput struct {
	SearchStringsArray        []string `json:"searchStringsArray"`
	MaxCrawledPlacesPerSearch int      `json:"maxCrawledPlacesPerSearch"`
	Language                  string   `json:"language"`
	MaxImages                 int      `json:"maxImages"`
	OneReviewPerPlace         bool     `json:"oneReviewPerPlace"`
	SkipClosedPlaces          bool     `json:"skipClosedPlaces"`
}

type userResponse struct {
	Data struct {
		Plan struct {
			MaxMonthlyUsageUsd float64 `json:"maxMonthlyUsageUsd"`
		} `json:"plan"`
	} `json:"data"`
}

type usageResponse struct {
	Data struct {
		TotalUsageCreditsUsdAfterVolumeDiscount  *float64 `json:"totalUsageCreditsUsdAfterVolumeDiscount"`
		TotalUsageCreditsUsdBeforeVolumeDiscount float64  `json:"totalUsageCreditsUsdBeforeVolumeDiscount"`
	} `json:"data"`
}
