package instantly

// CampaignItem é um item da listagem paginada de campanhas.
type CampaignItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type campaignListResponse struct {
	Items []CampaignItem `json:"items"`
}

type createCampaignRequest struct {
	Name             string           `json:"name"`
	CampaignSchedule CampaignSchedule `json:"campaign_schedule"`
}

type createCampaignResponse struct {
	ID   string `json:"id"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// CampaignSchedule: agenda mínima válida exigida pela API v2 na criação.
type CampaignSchedule struct {
	Schedules []ScheduleEntry `json:"schedules"`
}

type ScheduleEntry struct {
	Name     string          `json:"name"`
	Timing   ScheduleTiming  `json:"timing"`
	Days     map[string]bool `json:"days"`
	Timezone string          `json:"timezone"`
}

type ScheduleTiming struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type registerVariablesRequest struct {
	Variables []string `json:"variables"`
}

// LeadInput é o payload de contato enviado em bulk add e patch.
// CustomVariables carrega os metadados opcionais (postalCode, jobTitle,
// address, City, state). A chave "City" maiúscula é a grafia que o schema
// da campanha conhece.
type LeadInput struct {
	Email           string         `json:"email"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	CompanyName     string         `json:"company_name"`
	Website         string         `json:"website"`
	Phone           string         `json:"phone"`
	CustomVariables map[string]any `json:"custom_variables,omitempty"`
}

// CreatedLead identifica um lead criado no bulk add; Index aponta para a
// posição no slice enviado.
type CreatedLead struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
}

type bulkAddResponse struct {
	CreatedLeads []CreatedLead `json:"created_leads"`
}

// LeadDetail é o gêmeo remoto de um lead já existente na plataforma.
type LeadDetail struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Campaign   string `json:"campaign"`
	CompanyName string `json:"company_name"`
}

type leadListResponse struct {
	Items []LeadDetail `json:"items"`
}

type searchLeadsRequest struct {
	Campaign string `json:"campaign,omitempty"`
	Search   string `json:"search"`
	Limit    int    `json:"limit"`
}
