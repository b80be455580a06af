package usecase

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

const campaignPageSize = 100

// CampaignDirectory mantém o mapa nome→id de campanhas da plataforma externa
// e garante "no máximo uma campanha por nome por run". Seguro para uso
// concorrente pelos workers do sync.
type CampaignDirectory struct {
	API CampaignAPI

	mu     sync.Mutex
	byName map[string]string
	loaded bool
}

// NewCampaignDirectory cria o diretório vazio (não hidratado).
func NewCampaignDirectory(api CampaignAPI) *CampaignDirectory {
	return &CampaignDirectory{API: api, byName: map[string]string{}}
}

// Reset descarta o cache. Chamado no início de cada run para não carregar
// estado de execuções anteriores.
func (d *CampaignDirectory) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byName = map[string]string{}
	d.loaded = false
}

// ResolveOrCreate devolve o id da campanha com o nome dado, criando a
// campanha se não existir. Nome vazio é rejeitado. Falha na hidratação
// falha o resolve inteiro: criar sem saber o que já existe duplica campanha.
func (d *CampaignDirectory) ResolveOrCreate(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &DomainError{Code: "EMPTY_CAMPAIGN_NAME", Message: "campaign name cannot be empty"}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.loaded {
		if err := d.hydrateLocked(); err != nil {
			return "", err
		}
	}

	if id, ok := d.byName[name]; ok {
		return id, nil
	}

	id, err := d.API.CreateCampaign(name)
	if err != nil {
		return "", fmt.Errorf("create campaign %q: %w", name, err)
	}
	log.Printf("🎯 Campanha criada: %q (%s)", name, id)
	d.byName[name] = id
	return id, nil
}

// hydrateLocked pagina a listagem inteira de campanhas. Nome duplicado na
// plataforma fica com o primeiro id visto.
func (d *CampaignDirectory) hydrateLocked() error {
	byName := map[string]string{}
	skip := 0
	for {
		items, err := d.API.ListCampaigns(campaignPageSize, skip)
		if err != nil {
			return fmt.Errorf("list campaigns: %w", err)
		}
		for _, item := range items {
			if _, seen := byName[item.Name]; !seen {
				byName[item.Name] = item.ID
			}
		}
		if len(items) < campaignPageSize {
			break
		}
		skip += campaignPageSize
	}
	d.byName = byName
	d.loaded = true
	return nil
}
