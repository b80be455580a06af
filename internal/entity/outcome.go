package entity

// SyncOperation é a transição escolhida pelo reconciliador para um lead.
type SyncOperation string

const (
	OpCreate SyncOperation = "Create"
	OpUpdate SyncOperation = "Update"
	OpLink   SyncOperation = "Link"
	OpDelete SyncOperation = "Delete"
	OpSkip   SyncOperation = "Skip"
)

// SyncOutcome é o resultado efêmero de reconciliar um lead. Nunca é
// persistido por si só: vira campos do batch update e linhas do relatório.
type SyncOutcome struct {
	LeadID             string        `json:"id"`
	Success            bool          `json:"success"`
	Operation          SyncOperation `json:"op,omitempty"`
	NewInstantlyLeadID string        `json:"new_instantly_id,omitempty"`
	CampaignID         string        `json:"campaign_id,omitempty"`
	Error              string        `json:"error,omitempty"`

	// ClearRemoteID: em falha onde o lead remoto antigo já foi removido,
	// o ponteiro local precisa ser limpo mesmo com o lead ficando Failed,
	// senão a próxima tentativa parte de um id morto.
	ClearRemoteID bool `json:"-"`

	// Blocked marca o resultado do cleanup de lead reprovado na verificação.
	Blocked bool `json:"-"`
}
