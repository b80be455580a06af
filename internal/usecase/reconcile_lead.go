package usecase

import (
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/instantly"
)

// LeadReconciler decide e executa a transição correta de um lead contra a
// plataforma de campanhas: Create, Update, Link, Delete ou Skip. Nunca deixa
// erro escapar: todo caminho devolve um SyncOutcome.
type LeadReconciler struct {
	API       CampaignAPI
	Directory *CampaignDirectory
}

// Reconcile processa um único lead pendente. Seguro para chamar em paralelo:
// todo estado compartilhado vive no Directory, que se protege sozinho.
func (r *LeadReconciler) Reconcile(lead entity.Lead) entity.SyncOutcome {
	email := lead.Email()
	wantsSync := lead.HasDeliverableEmail()

	if lead.HasValidInstantlyLeadID() {
		if wantsSync {
			return r.reconcileExisting(lead, email)
		}
		// E-mail desmarcado: o gêmeo remoto não deve existir mais.
		return r.deleteRemote(lead)
	}

	if wantsSync {
		return r.reconcileFresh(lead, email)
	}

	// Sem e-mail e sem ponteiro utilizável. Ponteiro lixo é limpo no batch.
	return entity.SyncOutcome{LeadID: lead.ID, Success: true, Operation: entity.OpSkip}
}

// reconcileExisting cobre o lead que já tem ponteiro válido e e-mail.
func (r *LeadReconciler) reconcileExisting(lead entity.Lead, email string) entity.SyncOutcome {
	campaignID, err := r.resolveCampaign(lead)
	if err != nil {
		return r.fail(lead, err.Error())
	}

	remote, getErr := r.API.GetLead(lead.InstantlyLeadID)
	if getErr == nil && remote != nil && strings.EqualFold(strings.TrimSpace(remote.Email), email) {
		return r.updateRemote(lead, campaignID)
	}

	// E-mail divergiu ou o lead remoto sumiu: o e-mail novo é a chave de
	// recuperação. Primeiro procura um gêmeo já existente.
	found, _ := r.API.SearchLeadByEmail(email, campaignID)
	if found != nil {
		if found.ID != lead.InstantlyLeadID {
			r.deleteQuiet(lead.InstantlyLeadID)
		}
		return entity.SyncOutcome{
			LeadID: lead.ID, Success: true, Operation: entity.OpLink,
			NewInstantlyLeadID: found.ID, CampaignID: campaignID,
		}
	}

	r.deleteQuiet(lead.InstantlyLeadID)
	newID, createErr := r.createRemote(campaignID, lead)
	if createErr == nil && newID != "" {
		return entity.SyncOutcome{
			LeadID: lead.ID, Success: true, Operation: entity.OpCreate,
			NewInstantlyLeadID: newID, CampaignID: campaignID,
		}
	}

	// Corrida: o create pode ter perdido para um duplicado criado por fora.
	if again, _ := r.API.SearchLeadByEmail(email, campaignID); again != nil {
		return entity.SyncOutcome{
			LeadID: lead.ID, Success: true, Operation: entity.OpLink,
			NewInstantlyLeadID: again.ID, CampaignID: campaignID,
		}
	}

	out := r.fail(lead, fmt.Sprintf("email changed and create failed: %v", createErr))
	out.ClearRemoteID = true // o lead antigo já foi removido, ponteiro está morto
	return out
}

// updateRemote faz o patch dos campos de contato. Se o patch falhar, o
// caminho de recuperação é recriar: delete + create, com search de último
// recurso antes de desistir.
func (r *LeadReconciler) updateRemote(lead entity.Lead, campaignID string) entity.SyncOutcome {
	input := leadInputFrom(lead)
	if err := r.API.UpdateLead(lead.InstantlyLeadID, input); err == nil {
		return entity.SyncOutcome{
			LeadID: lead.ID, Success: true, Operation: entity.OpUpdate,
			NewInstantlyLeadID: lead.InstantlyLeadID, CampaignID: campaignID,
		}
	}

	r.deleteQuiet(lead.InstantlyLeadID)
	newID, createErr := r.createRemote(campaignID, lead)
	if createErr == nil && newID != "" {
		return entity.SyncOutcome{
			LeadID: lead.ID, Success: true, Operation: entity.OpCreate,
			NewInstantlyLeadID: newID, CampaignID: campaignID,
		}
	}

	if found, _ := r.API.SearchLeadByEmail(lead.Email(), campaignID); found != nil {
		return entity.SyncOutcome{
			LeadID: lead.ID, Success: true, Operation: entity.OpLink,
			NewInstantlyLeadID: found.ID, CampaignID: campaignID,
		}
	}

	out := r.fail(lead, fmt.Sprintf("update failed and create fallback failed: %v", createErr))
	out.ClearRemoteID = true
	return out
}

// reconcileFresh cobre o lead sem ponteiro utilizável mas com e-mail.
func (r *LeadReconciler) reconcileFresh(lead entity.Lead, email string) entity.SyncOutcome {
	campaignID, err := r.resolveCampaign(lead)
	if err != nil {
		return r.fail(lead, err.Error())
	}

	if found, _ := r.API.SearchLeadByEmail(email, campaignID); found != nil {
		return entity.SyncOutcome{
			LeadID: lead.ID, Success: true, Operation: entity.OpLink,
			NewInstantlyLeadID: found.ID, CampaignID: campaignID,
		}
	}

	newID, createErr := r.createRemote(campaignID, lead)
	if createErr != nil {
		return r.fail(lead, fmt.Sprintf("create failed: %v", createErr))
	}
	if newID != "" {
		return entity.SyncOutcome{
			LeadID: lead.ID, Success: true, Operation: entity.OpCreate,
			NewInstantlyLeadID: newID, CampaignID: campaignID,
		}
	}

	// Zero criados sem erro: resposta "skip duplicate" benigna. Procura de
	// novo antes de declarar que não havia nada a fazer.
	if found, _ := r.API.SearchLeadByEmail(email, campaignID); found != nil {
		return entity.SyncOutcome{
			LeadID: lead.ID, Success: true, Operation: entity.OpLink,
			NewInstantlyLeadID: found.ID, CampaignID: campaignID,
		}
	}
	return entity.SyncOutcome{LeadID: lead.ID, Success: true, Operation: entity.OpSkip, CampaignID: campaignID}
}

// deleteRemote remove o gêmeo remoto de um lead sem e-mail. "not found" conta
// como sucesso: o objetivo é ausência, não a deleção em si.
func (r *LeadReconciler) deleteRemote(lead entity.Lead) entity.SyncOutcome {
	if err := r.API.DeleteLead(lead.InstantlyLeadID); err != nil {
		if !strings.Contains(strings.ToLower(err.Error()), "not found") {
			return r.fail(lead, fmt.Sprintf("delete failed: %v", err))
		}
	}
	return entity.SyncOutcome{LeadID: lead.ID, Success: true, Operation: entity.OpDelete}
}

// resolveCampaign traduz a indústria do lead no id da campanha de destino.
// Sem campanha não há o que reconciliar, então a falha é imediata.
func (r *LeadReconciler) resolveCampaign(lead entity.Lead) (string, error) {
	name := lead.CampaignName()
	id, err := r.Directory.ResolveOrCreate(name)
	if err != nil {
		return "", fmt.Errorf("Create Failed: no campaign available for %q: %v", name, err)
	}
	return id, nil
}

// createRemote envia o lead via bulk add. Devolve id vazio sem erro quando a
// plataforma pulou o lead por já existir na campanha.
func (r *LeadReconciler) createRemote(campaignID string, lead entity.Lead) (string, error) {
	_, created, err := r.API.BulkAddLeads(campaignID, []instantly.LeadInput{leadInputFrom(lead)})
	if err != nil {
		return "", err
	}
	if len(created) == 0 {
		return "", nil
	}
	return created[0].ID, nil
}

// deleteQuiet remove um lead remoto sem deixar o erro contaminar o fluxo
// principal. Ausência já é o estado desejado.
func (r *LeadReconciler) deleteQuiet(id string) {
	_ = r.API.DeleteLead(id)
}

func (r *LeadReconciler) fail(lead entity.Lead, msg string) entity.SyncOutcome {
	return entity.SyncOutcome{LeadID: lead.ID, Success: false, Error: msg}
}

// leadInputFrom monta o payload de contato. Variáveis custom vazias são
// omitidas para não sobrescrever valores no schema da campanha.
func leadInputFrom(lead entity.Lead) instantly.LeadInput {
	first, last := splitName(lead.KeyContactName)
	input := instantly.LeadInput{
		Email:       lead.Email(),
		FirstName:   first,
		LastName:    last,
		CompanyName: lead.CompanyName,
		Website:     lead.Website,
		Phone:       lead.GenericPhone,
	}

	vars := map[string]any{}
	put := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			vars[key] = value
		}
	}
	put("postalCode", lead.PostalCode)
	put("jobTitle", lead.KeyContactPosition)
	put("address", lead.PostalAddress)
	put("City", lead.City)
	put("state", lead.State)
	if len(vars) > 0 {
		input.CustomVariables = vars
	}
	return input
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
