package usecase

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/apify"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/instantly"
	"github.com/xavierca1/ligue-leads/internal/parsing"
)

const defaultEnrichWorkers = 5

// ScrapeLeadsInput parametriza um run de captação.
type ScrapeLeadsInput struct {
	Query     string   `json:"query"`
	Industry  string   `json:"industry"`
	Zones     []string `json:"zones"`
	MaxPlaces int      `json:"max_places"`

	// Export manda os leads com e-mail direto para a campanha da indústria,
	// além de gravar no datastore.
	Export bool `json:"export"`
}

// ScrapeReport resume um run de captação.
type ScrapeReport struct {
	Scraped    int `json:"scraped"`
	Duplicates int `json:"duplicates"`
	Enriched   int `json:"enriched"`
	Created    int `json:"created"`
	Exported   int `json:"exported"`
}

// ScrapeLeadsUseCase alimenta o datastore com leads novos: scraper de mapas
// por zona, dedupe contra a base, quebra de endereço, enriquecimento de
// contato e criação em lote.
type ScrapeLeadsUseCase struct {
	Scraper   ScraperAPI
	Enricher  EnricherAPI // nulo desliga o enriquecimento
	Store     LeadStore
	API       CampaignAPI
	Directory *CampaignDirectory
	Workers   int
}

type scrapedLead struct {
	place   apify.Place
	parts   parsing.AddressParts
	contact struct {
		name, email, position string
	}
}

// Execute roda a captação completa. Zonas sem resultado não falham o run.
func (uc *ScrapeLeadsUseCase) Execute(ctx context.Context, in ScrapeLeadsInput) (*ScrapeReport, error) {
	if strings.TrimSpace(in.Query) == "" || len(in.Zones) == 0 {
		return nil, &DomainError{Code: "INVALID_SCRAPE_INPUT", Message: "query and at least one zone are required"}
	}
	report := &ScrapeReport{}

	websites, phones, err := uc.Store.ExistingContactKeys(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: "DATASTORE_READ_FAILED", Message: err.Error()}
	}

	// Divide o teto entre as zonas, arredondando para cima para não deixar
	// zona sem cota quando o teto é menor que o número de zonas.
	perZone := (in.MaxPlaces + len(in.Zones) - 1) / len(in.Zones)
	if perZone < 1 {
		perZone = 1
	}

	var fresh []scrapedLead
	for _, zone := range in.Zones {
		places, scrapeErr := uc.Scraper.ScrapePlaces(in.Query, zone, perZone)
		if scrapeErr != nil {
			log.Printf("⚠️ Scrape falhou na zona %q: %v", zone, scrapeErr)
			continue
		}
		report.Scraped += len(places)
		for _, place := range places {
			site := normalizeWebsite(place.Website)
			phone := digitsOnly(place.Phone)
			if (site != "" && websites[site]) || (phone != "" && phones[phone]) {
				report.Duplicates++
				continue
			}
			// Marca na hora para deduplicar também dentro do próprio run.
			if site != "" {
				websites[site] = true
			}
			if phone != "" {
				phones[phone] = true
			}
			fresh = append(fresh, scrapedLead{place: place, parts: parsing.ParseAddress(place.Address, zone)})
		}
	}
	log.Printf("🔍 Scrape: %d lugares, %d duplicados, %d novos", report.Scraped, report.Duplicates, len(fresh))

	if uc.Enricher != nil {
		report.Enriched = uc.enrichAll(fresh)
	}

	records := uc.buildRecords(ctx, in.Industry, fresh)
	if in.Export && uc.API != nil && uc.Directory != nil {
		report.Exported = uc.exportToCampaign(in.Industry, fresh, records)
	}

	if len(records) > 0 {
		if err := uc.Store.BatchCreateLeads(ctx, records); err != nil {
			return report, &TechnicalError{Code: "DATASTORE_WRITE_FAILED", Message: err.Error()}
		}
		report.Created = len(records)
	}
	log.Printf("✅ Captação concluída: %d criados, %d enriquecidos, %d exportados", report.Created, report.Enriched, report.Exported)
	return report, nil
}

// enrichAll busca o melhor contato por domínio num pool limitado. Falha de
// enriquecimento nunca derruba o lead: ele entra sem contato.
func (uc *ScrapeLeadsUseCase) enrichAll(leads []scrapedLead) int {
	workers := uc.Workers
	if workers <= 0 {
		workers = defaultEnrichWorkers
	}
	jobs := make(chan int)
	var enriched int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				domain := domainOf(leads[i].place.Website)
				if domain == "" {
					continue
				}
				contact, err := uc.Enricher.EnrichDomain(domain)
				if err != nil || contact == nil {
					continue
				}
				leads[i].contact.name = contact.Name
				leads[i].contact.email = contact.Email
				leads[i].contact.position = contact.Position
				mu.Lock()
				enriched++
				mu.Unlock()
			}
		}()
	}
	for i := range leads {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return enriched
}

// buildRecords monta as linhas novas do datastore, filtrando os campos pelo
// schema gravável. Sem o schema o filtro é pulado e o batch se defende com o
// retry que dropa coluna rejeitada.
func (uc *ScrapeLeadsUseCase) buildRecords(ctx context.Context, industry string, leads []scrapedLead) []map[string]any {
	writable, err := uc.Store.WritableFieldNames(ctx)
	if err != nil {
		log.Printf("⚠️ Schema do datastore indisponível, gravando sem filtro: %v", err)
		writable = nil
	}

	records := make([]map[string]any, 0, len(leads))
	for _, l := range leads {
		fields := map[string]any{
			"company_name":         strings.TrimSpace(l.place.Title),
			"industry":             industry,
			"city":                 l.parts.City,
			"state":                l.parts.State,
			"postal_code":          l.parts.PostalCode,
			"postal_address":       l.place.Address,
			"website":              l.place.Website,
			"generic_phone":        l.place.Phone,
			"rating":               l.place.TotalScore,
			"key_contact_name":     l.contact.name,
			"key_contact_email":    l.contact.email,
			"key_contact_position": l.contact.position,
			"email_available":      l.contact.email != "",
		}
		for name, value := range fields {
			if s, ok := value.(string); ok && s == "" {
				delete(fields, name)
				continue
			}
			if writable != nil && !writable[name] {
				delete(fields, name)
			}
		}
		records = append(records, fields)
	}
	return records
}

// exportToCampaign manda os leads enriquecidos para a campanha da indústria
// e anota o resultado nos records que vão para o datastore.
func (uc *ScrapeLeadsUseCase) exportToCampaign(industry string, leads []scrapedLead, records []map[string]any) int {
	name := entity.CampaignNameFor(industry)
	campaignID, err := uc.Directory.ResolveOrCreate(name)
	if err != nil {
		log.Printf("⚠️ Export pulado, campanha indisponível: %v", err)
		return 0
	}

	var inputs []instantly.LeadInput
	var recordIdx []int
	for i, l := range leads {
		if l.contact.email == "" {
			continue
		}
		first, last := splitName(l.contact.name)
		inputs = append(inputs, instantly.LeadInput{
			Email:       strings.ToLower(strings.TrimSpace(l.contact.email)),
			FirstName:   first,
			LastName:    last,
			CompanyName: strings.TrimSpace(l.place.Title),
			Website:     l.place.Website,
			Phone:       l.place.Phone,
		})
		recordIdx = append(recordIdx, i)
	}
	if len(inputs) == 0 {
		return 0
	}

	_, created, err := uc.API.BulkAddLeads(campaignID, inputs)
	if err != nil {
		log.Printf("⚠️ Export falhou: %v", err)
		return 0
	}
	for _, c := range created {
		if c.Index < 0 || c.Index >= len(recordIdx) {
			continue
		}
		rec := records[recordIdx[c.Index]]
		rec["instantly_lead_id"] = c.ID
		rec["instantly_campaign_id"] = campaignID
		rec["instantly_statuts"] = entity.SyncStatusSuccess
	}
	return len(created)
}

func normalizeWebsite(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return s
}

func domainOf(website string) string {
	return normalizeWebsite(website)
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
