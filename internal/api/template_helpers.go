package api

import (
	"encoding/json"
	"html/template"
	"strings"

	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
)

// GetTemplateFuncs returns the helpers available to the signing page template.
func GetTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"toJSON": func(v interface{}) string {
			data, err := json.Marshal(v)
			if err != nil {
				return "null"
			}
			return string(data)
		},
		"shortAddress": shortAddress,
	}
}

func shortAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// getPageTitle returns a human-readable title for a signing session
func getPageTitle(session *models.TransactionSession) string {
	if name, ok := session.MetadataValue(services.MetadataLockName); ok && name != "" {
		return "Deploy lock: " + name
	}
	if len(session.TransactionDeployments) == 0 {
		return "Sign transaction"
	}

	// Capitalize first letter and replace underscores with spaces
	title := strings.ReplaceAll(string(session.TransactionDeployments[0].TransactionType), "_", " ")
	if len(title) > 0 {
		title = strings.ToUpper(string(title[0])) + title[1:]
	}
	return title
}
