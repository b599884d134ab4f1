package services

import (
	"context"
	"testing"

	"github.com/codeotter0201/fullstack-lms-challenge/utils/testutil"
	"gorm.io/gorm"
)

type testServices struct {
	db          *gorm.DB
	entitlement *EntitlementService
	experience  *ExperienceService
	progress    *ProgressService
	submission  *SubmissionService
	purchase    *PurchaseService
	catalog     *CatalogService
	roles       *RoleService
	levelUps    []*ExperienceChange
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := testutil.NewDB(t)
	ts := &testServices{db: db}

	locker := NewLocalLocker()
	ts.entitlement = NewEntitlementService(db)
	ts.experience = NewExperienceService(db, nil, func(_ context.Context, change *ExperienceChange) {
		ts.levelUps = append(ts.levelUps, change)
	})
	ts.progress = NewProgressService(db, ts.entitlement, nil)
	ts.submission = NewSubmissionService(db, ts.experience, locker, nil)
	ts.purchase = NewPurchaseService(db, locker, nil)
	ts.catalog = NewCatalogService(db, ts.entitlement, nil)
	ts.roles = NewRoleService(db, nil)
	return ts
}
