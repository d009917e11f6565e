package lock

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rxtech-lab/lock-launchpad/internal/constants"
)

// BuildUnlockLink returns the viewer URL for a deployed lock.
func BuildUnlockLink(host string, networkID int64, lockAddress common.Address) string {
	if host == "" {
		host = constants.DefaultViewerHost
	}
	host = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://"), "/")

	u := url.URL{
		Scheme: "https",
		Host:   host,
		Path:   "/demo",
	}
	u.RawQuery = fmt.Sprintf("network=%d&lock=%s", networkID, lockAddress.Hex())
	return u.String()
}

// TransactionLink returns the block explorer URL of a transaction, or "" when no explorer is known.
func TransactionLink(explorerURL, txHash string) string {
	if explorerURL == "" || txHash == "" {
		return ""
	}
	return strings.TrimSuffix(explorerURL, "/") + "/tx/" + txHash
}
