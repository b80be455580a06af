package parsing

import (
	"regexp"
	"strings"
)

var (
	stateCodeRe = regexp.MustCompile(`\b([A-Z]{2})\b`)
	zipRe       = regexp.MustCompile(`\b(\d{5}(?:-\d{4})?)\b`)
)

var nycBoroughs = []string{"manhattan", "brooklyn", "queens", "the bronx", "bronx", "staten island"}

// AddressParts é o resultado da heurística de quebra de endereço.
type AddressParts struct {
	City       string
	State      string
	PostalCode string
}

// ParseAddress extrai cidade, estado e CEP/zip de um endereço livre.
// Boroughs de NYC são normalizados para "New York". Quando o endereço não dá
// pistas, a cidade cai no fallback informado.
func ParseAddress(address, fallbackCity string) AddressParts {
	out := AddressParts{City: titleCase(fallbackCity)}
	if strings.TrimSpace(address) == "" {
		return out
	}

	var parts []string
	for _, p := range strings.Split(address, ",") {
		parts = append(parts, strings.TrimSpace(p))
	}

	switch {
	case len(parts) >= 3:
		stateZip := parts[len(parts)-2]
		possibleCity := parts[len(parts)-3]

		if m := zipRe.FindString(stateZip); m != "" {
			out.PostalCode = m
		}
		if m := stateCodeRe.FindString(stateZip); m != "" {
			out.State = m
			out.City = possibleCity
		} else {
			out.State = parts[len(parts)-1]
			out.City = parts[len(parts)-2]
		}
	case len(parts) == 2:
		out.City = parts[0]
		stateZip := parts[1]

		if m := zipRe.FindString(stateZip); m != "" {
			out.PostalCode = m
		}
		if m := stateCodeRe.FindString(stateZip); m != "" {
			out.State = m
		} else {
			cleaned := strings.TrimSpace(zipRe.ReplaceAllString(stateZip, ""))
			if cleaned == "" {
				cleaned = strings.TrimSpace(stateZip)
			}
			out.State = cleaned
		}
	}

	if out.State != "" && strings.HasSuffix(out.City, ", "+out.State) {
		out.City = strings.TrimSpace(strings.TrimSuffix(out.City, ", "+out.State))
	}

	lowerCity := strings.ToLower(out.City)
	for _, b := range nycBoroughs {
		if strings.Contains(lowerCity, b) {
			out.City = "New York"
			if out.State == "" {
				out.State = "NY"
			}
			break
		}
	}

	// Passada final: estado pode ter vindo colado com zip ("CA 94105") ou por
	// extenso; extrai o código de 2 letras quando der.
	if out.State != "" {
		if m := zipRe.FindString(out.State); m != "" && out.PostalCode == "" {
			out.PostalCode = m
		}
		if m := stateCodeRe.FindString(out.State); m != "" {
			out.State = m
		} else {
			out.State = strings.TrimSpace(zipRe.ReplaceAllString(out.State, ""))
		}
	}

	return out
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
