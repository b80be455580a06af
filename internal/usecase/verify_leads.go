package usecase

import (
	"sync"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

const defaultVerifyWorkers = 15

// VerificationResult é o veredito de e-mail de um lead. FromAPI indica que o
// status veio do verificador neste run e ainda precisa ser persistido.
type VerificationResult struct {
	Lead    entity.Lead
	Status  entity.VerificationStatus
	FromAPI bool
}

// LeadVerifier resolve o veredito de e-mail de um lote de leads, confiando
// no status já persistido e consultando o verificador só para o resto.
type LeadVerifier struct {
	API     VerifierAPI
	Workers int

	// OnProgress, se definido, recebe (feitos, total) a cada lead resolvido.
	OnProgress func(done, total int)
}

// VerifyBatch devolve um resultado por lead, na mesma ordem da entrada.
//   - status persistido: confiado, nenhuma chamada externa (FromAPI=false)
//   - sem e-mail: "unknown" direto, e FromAPI=true para gravar o veredito
//   - caso contrário: verificador externo (pool de workers)
func (v *LeadVerifier) VerifyBatch(leads []entity.Lead) []VerificationResult {
	results := make([]VerificationResult, len(leads))

	type job struct {
		index int
		email string
	}
	jobs := make(chan job)

	var done int
	var mu sync.Mutex
	progress := func() {
		if v.OnProgress == nil {
			return
		}
		mu.Lock()
		done++
		v.OnProgress(done, len(leads))
		mu.Unlock()
	}

	workers := v.Workers
	if workers <= 0 {
		workers = defaultVerifyWorkers
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index].Status = v.API.VerifySingle(j.email)
				results[j.index].FromAPI = true
				progress()
			}
		}()
	}

	for i, lead := range leads {
		results[i].Lead = lead
		if lead.HasTrustedVerification() {
			results[i].Status = entity.NormalizeVerificationStatus(lead.VerificationStatus)
			progress()
			continue
		}
		email := lead.Email()
		if email == "" {
			results[i].Status = entity.VerificationUnknown
			results[i].FromAPI = true
			progress()
			continue
		}
		jobs <- job{index: i, email: email}
	}
	close(jobs)
	wg.Wait()

	return results
}
