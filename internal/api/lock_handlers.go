package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rxtech-lab/lock-launchpad/internal/models"
	"github.com/rxtech-lab/lock-launchpad/internal/utils"
	"gorm.io/gorm"
)

type LockResponse struct {
	Lock       *models.Lock           `json:"lock,omitempty"`
	Deployment *models.LockDeployment `json:"deployment,omitempty"`
}

// handleGetLock returns a lock as indexed by the subgraph, together with the local deployment record if there is one
func (s *APIServer) handleGetLock(c *fiber.Ctx) error {
	network := c.Params("network")
	address, err := utils.ParseAddress(c.Params("address"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	response := LockResponse{}

	deployment, err := s.deploymentService.GetDeploymentByLockAddress(address.Hex())
	switch {
	case err == nil:
		response.Deployment = deployment
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	lock, err := s.subgraphService.GetLock(c.UserContext(), address.Hex(), network)
	if err != nil {
		s.logger.Warn().Err(err).Str("lock_address", address.Hex()).Str("network", network).Msg("subgraph lock lookup failed")
		if response.Deployment == nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}
	response.Lock = lock

	if response.Lock == nil && response.Deployment == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lock not found",
		})
	}
	return c.JSON(response)
}

// handleListMemberships returns the key purchases of a wallet on one network, or on every network when none is given
func (s *APIServer) handleListMemberships(c *fiber.Ctx) error {
	wallet, err := utils.ParseAddress(c.Params("wallet"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var memberships []models.Membership
	if network := c.Query("network"); network != "" {
		memberships, err = s.subgraphService.GetMemberships(c.UserContext(), wallet.Hex(), network)
	} else {
		memberships, err = s.subgraphService.GetAllMemberships(c.UserContext(), wallet.Hex())
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("wallet", wallet.Hex()).Msg("subgraph membership lookup failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if memberships == nil {
		memberships = []models.Membership{}
	}

	return c.JSON(fiber.Map{
		"wallet":      wallet.Hex(),
		"memberships": memberships,
		"total":       len(memberships),
	})
}
