package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gofiber/fiber/v2"
	"github.com/rxtech-lab/lock-launchpad/internal/assets"
	"github.com/rxtech-lab/lock-launchpad/internal/lock"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/services"
	"github.com/rxtech-lab/lock-launchpad/internal/utils"
	"gorm.io/gorm"
)

const receiptTimeout = 15 * time.Second

type RPCNetwork struct {
	ChainID string `json:"chain_id"`
	Name    string `json:"name"`
	Rpc     string `json:"rpc"`
}

type TransactionCompleteRequest struct {
	TransactionHash string `json:"transactionHash"`
	SignedMessage   string `json:"signedMessage,omitempty"`
	// Signature is signed by user to prove the ownership
	Signature string `json:"signature,omitempty"`
}

type TransactionCompleteResponse struct {
	TransactionHash string                   `json:"transactionHash"`
	Status          models.TransactionStatus `json:"status"`
	ContractAddress *string                  `json:"contractAddress,omitempty"`
	SessionStatus   models.TransactionStatus `json:"sessionStatus"`
}

type ErrorPageData struct {
	Title      string
	Message    string
	StatusCode int
}

// renderErrorPage renders the error HTML template with the provided data
func (s *APIServer) renderErrorPage(c *fiber.Ctx, statusCode int, title, message string) error {
	data := ErrorPageData{
		Title:      title,
		Message:    message,
		StatusCode: statusCode,
	}

	tmpl, err := template.New("error").Parse(string(assets.ErrorHTML))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to parse error template")
		return c.Status(statusCode).SendString(title)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error().Err(err).Msg("failed to render error template")
		return c.Status(statusCode).SendString(title)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(statusCode).Send(buf.Bytes())
}

// handleTransactionPage serves the transaction signing page
func (s *APIServer) handleTransactionPage(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")

	session, err := s.txService.GetTransactionSession(sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("signing page for unknown session")
		if errors.Is(err, services.ErrSessionExpired) {
			return s.renderErrorPage(c, fiber.StatusGone, "Session Expired",
				"This signing session has expired. Ask for a new signing link to deploy the lock.")
		}
		return s.renderErrorPage(c, fiber.StatusNotFound, "Session Not Found",
			"The requested transaction session could not be found. The URL may be incorrect.")
	}

	switch session.TransactionStatus {
	case models.TransactionStatusConfirmed:
		return s.renderErrorPage(c, fiber.StatusNotAcceptable, "Transaction Already Confirmed",
			"This transaction has already been confirmed and completed. No further action is required.")
	case models.TransactionStatusFailed:
		return s.renderErrorPage(c, fiber.StatusNotAcceptable, "Transaction Failed",
			"A transaction in this session failed on chain. Ask for a new signing link to try again.")
	}

	data := map[string]interface{}{
		"Title":     getPageTitle(session),
		"SessionID": sessionID,
		"RPCNetwork": RPCNetwork{
			ChainID: session.Chain.NetworkID,
			Name:    session.Chain.Name,
			Rpc:     session.Chain.RPC,
		},
		"SigningMessage": utils.GenerateMessage(),
		"SessionData":    session,
		"Transactions":   session.TransactionDeployments,
	}

	tmpl, err := template.New("signing").Funcs(GetTemplateFuncs()).Parse(string(assets.SigningHTML))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to parse signing template")
		return c.Status(fiber.StatusInternalServerError).SendString("Error parsing template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error().Err(err).Msg("failed to render signing template")
		return c.Status(fiber.StatusInternalServerError).SendString("Error rendering template")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// handleGetTransactionSession returns the session the signing page works on
func (s *APIServer) handleGetTransactionSession(c *fiber.Ctx) error {
	session, err := s.txService.GetTransactionSession(c.Params("session_id"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(session)
}

// handleTransactionReport records the transaction the wallet sent for one entry of a session.
// The outcome is taken from the on-chain receipt, never from the client.
func (s *APIServer) handleTransactionReport(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")

	body := TransactionCompleteRequest{}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid index",
		})
	}

	txHash, err := utils.ParseTransactionHash(body.TransactionHash)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	session, err := s.txService.GetTransactionSession(sessionID)
	if err != nil {
		return sessionError(c, err)
	}
	if session.IsSettled() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Session is already " + string(session.TransactionStatus),
		})
	}
	if index < 0 || index >= len(session.TransactionDeployments) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Transaction index out of range",
		})
	}
	deployment := session.TransactionDeployments[index]

	ctx, cancel := context.WithTimeout(c.UserContext(), receiptTimeout)
	defer cancel()

	receipt, err := s.ethereumService.GetReceipt(ctx, session.Chain.RPC, txHash)
	if errors.Is(err, services.ErrReceiptNotFound) {
		return c.Status(fiber.StatusAccepted).JSON(TransactionCompleteResponse{
			TransactionHash: txHash.Hex(),
			Status:          models.TransactionStatusPending,
			SessionStatus:   session.TransactionStatus,
		})
	}
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Str("tx_hash", txHash.Hex()).Msg("failed to fetch receipt")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to verify transaction",
		})
	}

	tx, err := s.ethereumService.GetTransaction(ctx, session.Chain.RPC, txHash)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Str("tx_hash", txHash.Hex()).Msg("failed to fetch transaction")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to verify transaction",
		})
	}
	if err := matchesDeployment(tx, deployment); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Str("tx_hash", txHash.Hex()).Msg("reported transaction does not belong to session")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if body.Signature != "" {
		if err := s.verifyOwnership(ctx, session.Chain.RPC, txHash, body); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Str("tx_hash", txHash.Hex()).Msg("ownership check failed")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	report := services.TransactionReport{
		TransactionHash: txHash.Hex(),
		Status:          models.TransactionStatusFailed,
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		report.Status = models.TransactionStatusConfirmed
		report.ContractAddress = createdAddress(deployment.TransactionType, receipt)
	}

	updated, err := s.txService.RecordTransaction(sessionID, index, report)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to record transaction")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update session",
		})
	}
	updated.Chain = session.Chain

	response := TransactionCompleteResponse{
		TransactionHash: report.TransactionHash,
		Status:          report.Status,
		SessionStatus:   updated.TransactionStatus,
	}
	if report.ContractAddress != "" {
		response.ContractAddress = &report.ContractAddress
	}

	if report.Status == models.TransactionStatusConfirmed {
		if err := s.hookService.OnTransactionConfirmed(deployment.TransactionType, report.TransactionHash, response.ContractAddress, *updated); err != nil {
			s.logger.Error().Err(err).Str("session_id", sessionID).Msg("transaction hook failed")
		}
	}

	return c.JSON(response)
}

func (s *APIServer) verifyOwnership(ctx context.Context, rpcURL string, txHash common.Hash, body TransactionCompleteRequest) error {
	if body.SignedMessage == "" {
		return errors.New("signedMessage is required with a signature")
	}
	sender, err := s.ethereumService.TransactionSender(ctx, rpcURL, txHash)
	if err != nil {
		return err
	}
	ok, err := utils.VerifyTransactionOwnership(sender, body.Signature, body.SignedMessage)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("signature does not belong to the transaction sender")
	}
	return nil
}

// createdAddress returns the contract created by a successful transaction, if any.
// matchesDeployment checks that tx is the call the session asked the wallet to send.
func matchesDeployment(tx *types.Transaction, deployment models.TransactionDeployment) error {
	if deployment.Receiver != "" {
		if tx.To() == nil || *tx.To() != common.HexToAddress(deployment.Receiver) {
			return fmt.Errorf("transaction is not sent to %s", deployment.Receiver)
		}
	}
	if deployment.Data != "" {
		expected, err := hexutil.Decode(deployment.Data)
		if err != nil {
			return fmt.Errorf("session transaction data is malformed: %w", err)
		}
		if !bytes.Equal(tx.Data(), expected) {
			return errors.New("transaction data does not match the session")
		}
	}
	return nil
}

func createdAddress(txType models.TransactionType, receipt *types.Receipt) string {
	if txType == models.TransactionTypeLockDeployment {
		address, err := lock.LockAddressFromReceipt(receipt)
		if err != nil {
			return ""
		}
		return address.Hex()
	}
	if receipt.ContractAddress != (common.Address{}) {
		return receipt.ContractAddress.Hex()
	}
	return ""
}

func sessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSessionExpired):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "Session expired"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
