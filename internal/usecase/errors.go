package usecase

import "strings"

// DomainError: violação de regra de negócio (entrada inválida, campanha
// inexistente). Não adianta repetir sem mudar a entrada.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Code + ": " + e.Message
}

// TechnicalError: falha de infraestrutura (datastore fora, fila caída).
// Vale repetir o run inteiro.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Code + ": " + e.Message
}

// Categorias de falha do sync, usadas só para o relatório. A classificação
// nunca muda o comportamento de retry.
const (
	FailureNaNJSON       = "nan_json"
	FailureRateLimited   = "rate_limited"
	FailureMissingConfig = "missing_config"
	FailureInvalidID     = "invalid_id"
	FailureNotFound      = "not_found"
	FailureEmailChange   = "email_change"
	FailureDuplicate     = "duplicate"
	FailureOther         = "other"
)

// ClassifyFailure mapeia o texto de erro de um lead para uma categoria.
func ClassifyFailure(errText string) string {
	msg := strings.ToLower(errText)
	switch {
	case strings.Contains(msg, "out of range float values are not json compliant") || strings.Contains(msg, " nan"):
		return FailureNaNJSON
	case strings.Contains(msg, "rate limit exceeded") || strings.Contains(msg, `statuscode":429`) || strings.Contains(msg, " 429"):
		return FailureRateLimited
	case strings.Contains(msg, "missing api_key, campaign_id, or leads") || strings.Contains(msg, "missing api_key/campaign_id"):
		return FailureMissingConfig
	case strings.Contains(msg, "invalid lead id"):
		return FailureInvalidID
	case strings.Contains(msg, "not found") || strings.Contains(msg, "404"):
		return FailureNotFound
	case strings.Contains(msg, "email changed") || strings.Contains(msg, "create failed"):
		return FailureEmailChange
	case strings.Contains(msg, "duplicate") || strings.Contains(msg, "already exists"):
		return FailureDuplicate
	default:
		return FailureOther
	}
}
