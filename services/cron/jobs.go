package cron

import (
	"context"
	"fmt"

	"github.com/codeotter0201/fullstack-lms-challenge/services"
)

// reconcileBatchSize is how many users ReconcileUserLevels loads per query
const reconcileBatchSize = 500

// CleanupExpiredTokens deletes blacklist entries whose tokens have expired
func (m *CronManager) CleanupExpiredTokens(ctx context.Context) (*JobResult, error) {
	deleted, err := m.blacklist.CleanupExpiredTokens(ctx, m.now())
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return &JobResult{
		Message:  fmt.Sprintf("deleted %d expired tokens", deleted),
		Metadata: map[string]interface{}{"deleted": deleted},
	}, nil
}

// ReconcileUserLevels rewrites the stored level of every user whose level
// disagrees with their experience
func (m *CronManager) ReconcileUserLevels(ctx context.Context) (*JobResult, error) {
	var scanned, fixed int
	var afterID uint
	for {
		batch, err := m.users.ListAfter(ctx, nil, afterID, reconcileBatchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		for _, u := range batch {
			scanned++
			want := services.CalculateLevel(u.Experience)
			if want == u.Level {
				continue
			}
			if err := m.users.UpdateLevel(ctx, nil, u.ID, want); err != nil {
				return nil, fmt.Errorf("failed to update level of user %d: %w", u.ID, err)
			}
			m.log.Warn("reconciled user level", "user_id", u.ID, "stored", u.Level, "computed", want)
			fixed++
		}
		afterID = batch[len(batch)-1].ID
	}
	return &JobResult{
		Message:  fmt.Sprintf("scanned %d users, fixed %d levels", scanned, fixed),
		Metadata: map[string]interface{}{"scanned": scanned, "fixed": fixed},
	}, nil
}
