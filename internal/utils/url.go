package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// GetTransactionSessionUrl returns the signing page URL for a session. baseURL wins over the
// local port when set.
func GetTransactionSessionUrl(baseURL string, serverPort int, sessionId string) (string, error) {
	if baseURL != "" {
		parsedUrl, err := url.Parse(baseURL)
		if err != nil {
			return "", fmt.Errorf("invalid BASE_URL: %w", err)
		}
		if parsedUrl.Scheme == "" || parsedUrl.Host == "" {
			return "", fmt.Errorf("invalid BASE_URL %q: scheme and host are required", baseURL)
		}
		parsedUrl.Path = strings.TrimSuffix(parsedUrl.Path, "/") + "/tx/" + sessionId
		return parsedUrl.String(), nil
	}

	return fmt.Sprintf("http://localhost:%d/tx/%s", serverPort, sessionId), nil
}
