package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

const (
	defaultSyncWorkers  = 5
	maxFailureSamples   = 10
	syncTimestampLayout = time.RFC3339
	defaultMaxSyncLeads = 5000
)

// SyncReport é o resultado agregado de um run de sincronização.
type SyncReport struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Blocked   int `json:"blocked"`

	ByOperation       map[entity.SyncOperation]int `json:"by_operation"`
	FailureCategories map[string]int               `json:"failure_categories"`
	FailureSamples    []string                     `json:"failure_samples,omitempty"`

	Outcomes []entity.SyncOutcome `json:"-"`
}

// Summary renderiza o relatório em texto, para log e para o e-mail do operador.
func (r *SyncReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sync: %d pendentes, %d processados, %d adiados\n", r.Total, r.Processed, r.Skipped)
	fmt.Fprintf(&b, "Resultado: %d ok, %d falhas, %d bloqueados\n", r.Succeeded, r.Failed, r.Blocked)
	for _, op := range []entity.SyncOperation{entity.OpCreate, entity.OpUpdate, entity.OpLink, entity.OpDelete, entity.OpSkip} {
		if n := r.ByOperation[op]; n > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", op, n)
		}
	}
	for category, n := range r.FailureCategories {
		fmt.Fprintf(&b, "  falha %s: %d\n", category, n)
	}
	for _, sample := range r.FailureSamples {
		fmt.Fprintf(&b, "  exemplo: %s\n", sample)
	}
	return b.String()
}

// SyncPendingLeadsUseCase orquestra o run completo: cap, verificação,
// reconciliação em paralelo, cleanup de bloqueados e o batch único de
// escrita no datastore.
type SyncPendingLeadsUseCase struct {
	API       CampaignAPI
	Store     LeadStore
	Directory *CampaignDirectory

	// Verifier nulo desliga o gate: todo lead vai direto para reconciliação.
	Verifier *LeadVerifier

	Workers int
	Now     func() time.Time
}

// Execute processa o conjunto pendente. O relatório volta mesmo quando a
// escrita no datastore falha: as mutações remotas já aconteceram e não são
// desfeitas; o erro de escrita é o único erro de nível de run.
func (uc *SyncPendingLeadsUseCase) Execute(ctx context.Context, leads []entity.Lead, maxRecords int) (*SyncReport, error) {
	uc.Directory.Reset()

	if maxRecords <= 0 {
		maxRecords = defaultMaxSyncLeads
	}
	report := &SyncReport{
		Total:             len(leads),
		ByOperation:       map[entity.SyncOperation]int{},
		FailureCategories: map[string]int{},
	}
	if len(leads) > maxRecords {
		report.Skipped = len(leads) - maxRecords
		leads = leads[:maxRecords]
	}
	report.Processed = len(leads)
	log.Printf("🔄 Sync iniciado: %d leads (%d adiados)", report.Processed, report.Skipped)

	verifiedStatus := map[string]entity.VerificationStatus{}
	good := leads
	var bad []entity.Lead
	if uc.Verifier != nil {
		results := uc.Verifier.VerifyBatch(leads)
		good = good[:0:0]
		for _, res := range results {
			if res.FromAPI {
				verifiedStatus[res.Lead.ID] = res.Status
			}
			if res.Status.Good() {
				good = append(good, res.Lead)
			} else {
				bad = append(bad, res.Lead)
			}
		}
		log.Printf("📧 Verificação: %d aprovados, %d bloqueados", len(good), len(bad))
	}

	reconciler := &LeadReconciler{API: uc.API, Directory: uc.Directory}
	outcomes := uc.runPool(good, reconciler.Reconcile)
	outcomes = append(outcomes, uc.runPool(bad, uc.cleanupBlocked)...)
	report.Outcomes = outcomes

	now := uc.Now
	if now == nil {
		now = time.Now
	}
	syncedAt := now().UTC().Format(syncTimestampLayout)

	updates := make([]entity.LeadUpdate, 0, len(outcomes))
	for _, out := range outcomes {
		fields := map[string]any{}
		switch {
		case out.Success && out.Blocked:
			report.Blocked++
			fields["instantly_statuts"] = entity.SyncStatusBlocked
			fields["instantly_lead_id"] = nil
			fields["instantly_campaign_id"] = nil
			fields["last_synced_at"] = syncedAt
		case out.Success:
			report.Succeeded++
			report.ByOperation[out.Operation]++
			fields["last_synced_at"] = syncedAt
			switch out.Operation {
			case entity.OpCreate, entity.OpUpdate, entity.OpLink:
				fields["instantly_statuts"] = entity.SyncStatusSuccess
				fields["instantly_lead_id"] = out.NewInstantlyLeadID
				fields["instantly_campaign_id"] = out.CampaignID
			default: // Delete e Skip deixam o lead sem presença remota
				fields["instantly_statuts"] = nil
				fields["instantly_lead_id"] = nil
				fields["instantly_campaign_id"] = nil
			}
		default:
			report.Failed++
			category := ClassifyFailure(out.Error)
			report.FailureCategories[category]++
			if len(report.FailureSamples) < maxFailureSamples {
				report.FailureSamples = append(report.FailureSamples, fmt.Sprintf("[%s] %s: %s", category, out.LeadID, out.Error))
			}
			// last_synced_at não avança: o lead continua pendente para retry.
			fields["instantly_statuts"] = entity.SyncStatusFailed
			if out.ClearRemoteID {
				fields["instantly_lead_id"] = nil
				fields["instantly_campaign_id"] = nil
			}
		}
		if status, ok := verifiedStatus[out.LeadID]; ok {
			fields["verification_status"] = string(status)
		}
		updates = append(updates, entity.LeadUpdate{ID: out.LeadID, Fields: fields})
	}

	if len(updates) > 0 {
		if err := uc.Store.BatchUpdateLeads(ctx, updates); err != nil {
			log.Printf("❌ Falha gravando resultado do sync no datastore: %v", err)
			return report, &TechnicalError{Code: "DATASTORE_WRITE_FAILED", Message: err.Error()}
		}
	}
	log.Printf("✅ Sync concluído: %d ok, %d falhas, %d bloqueados", report.Succeeded, report.Failed, report.Blocked)
	return report, nil
}

// cleanupBlocked remove a presença remota de um lead reprovado na
// verificação: pelo ponteiro quando válido, senão pelo e-mail.
func (uc *SyncPendingLeadsUseCase) cleanupBlocked(lead entity.Lead) entity.SyncOutcome {
	remoteID := ""
	if lead.HasValidInstantlyLeadID() {
		remoteID = lead.InstantlyLeadID
	} else if email := lead.Email(); email != "" {
		if found, _ := uc.API.SearchLeadByEmail(email, ""); found != nil {
			remoteID = found.ID
		}
	}

	if remoteID != "" {
		if err := uc.API.DeleteLead(remoteID); err != nil {
			if !strings.Contains(strings.ToLower(err.Error()), "not found") {
				return entity.SyncOutcome{LeadID: lead.ID, Blocked: true, Error: fmt.Sprintf("cleanup delete failed: %v", err)}
			}
		}
	}
	return entity.SyncOutcome{LeadID: lead.ID, Success: true, Blocked: true, Operation: entity.OpDelete}
}

// runPool executa fn para cada lead num pool limitado e coleta os resultados
// na ordem de conclusão (a ordem não importa para o batch).
func (uc *SyncPendingLeadsUseCase) runPool(leads []entity.Lead, fn func(entity.Lead) entity.SyncOutcome) []entity.SyncOutcome {
	if len(leads) == 0 {
		return nil
	}
	workers := uc.Workers
	if workers <= 0 {
		workers = defaultSyncWorkers
	}

	jobs := make(chan entity.Lead)
	results := make(chan entity.SyncOutcome, len(leads))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for lead := range jobs {
				results <- fn(lead)
			}
		}()
	}
	for _, lead := range leads {
		jobs <- lead
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]entity.SyncOutcome, 0, len(leads))
	for res := range results {
		out = append(out, res)
	}
	return out
}
