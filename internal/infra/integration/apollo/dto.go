package apollo

// EnrichedContact é o melhor contato encontrado para um domínio.
type EnrichedContact struct {
	Name     string
	Email    string
	Position string
}

type searchRequest struct {
	QOrganizationDomains string   `json:"q_organization_domains"`
	Page                 int      `json:"page"`
	PerPage              int      `json:"per_page"`
	PersonTitles         []string `json:"person_titles"`
	ContactEmailStatus   []string `json:"contact_email_status"`
}

type searchResponse struct {
	People []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Title string `json:"title"`
	} `json:"people"`
}

type matchRequest struct {
	ID                   string `json:"id"`
	RevealPersonalEmails bool   `json:"reveal_personal_emails"`
}

type matchResponse struct {
	Person *struct {
		Email string `json:"email"`
		Title string `json:"title"`
	} `json:"person"`
}
