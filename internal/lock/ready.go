package lock

// IsReady reports whether a request can be submitted: every field is valid and the decimals of
// the request's own currency are resolved. State resolved for another currency does not count.
func IsReady(req LockDeploymentRequest, state DecimalsState) bool {
	if req.Validate() != nil {
		return false
	}
	if state.Status != DecimalsResolved {
		return false
	}
	return state.Currency == req.Currency()
}
