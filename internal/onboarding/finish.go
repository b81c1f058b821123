package onboarding

import "context"

// Finish is the exit action from results: refresh the cached user so the
// dashboard sees the new profile, give it a moment, then leave.
func (c *Controller) Finish(ctx context.Context) (redirect Redirect, err error) {
	c.mu.Lock()
	if c.section != SectionResults || c.result == nil {
		c.mu.Unlock()
		return RedirectNone, ErrNotFinished
	}
	userID := c.userID
	c.mu.Unlock()

	if err := c.acquire(); err != nil {
		return RedirectNone, err
	}
	defer c.release()
	defer c.recoverUnexpected(&err)

	if _, err := c.deps.Users.Refresh(ctx, userID); err != nil {
		c.log.Warn("user refresh on exit failed", "user_id", userID, "error", err)
	}
	if err := c.deps.Sleep(ctx, c.deps.Settings.ExitSettleDelay); err != nil {
		return RedirectNone, err
	}

	c.mu.Lock()
	c.phase = PhaseRedirected
	c.redirect = RedirectDashboard
	c.mu.Unlock()
	return RedirectDashboard, nil
}
