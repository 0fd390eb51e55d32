package mysql

import (
	"context"

	"studentloan-backend/internal/domain/application"
	"studentloan-backend/internal/domain/datastore"

	"gorm.io/gorm"
)

type ApplicationRepository struct {
	g *Gateway[application.LoanApplication]
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{g: NewGateway[application.LoanApplication](db)}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *application.LoanApplication) error {
	return r.g.Insert(ctx, a)
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uint64) (*application.LoanApplication, error) {
	return r.g.Get(ctx, id)
}

func (r *ApplicationRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*application.LoanApplication, error) {
	return r.g.GetForUpdate(ctx, id)
}

func (r *ApplicationRepository) ApplyStatus(ctx context.Context, id uint64, p application.StatusPatch) error {
	return r.g.Update(ctx, id, p.Fields())
}

func (r *ApplicationRepository) Delete(ctx context.Context, id uint64) error {
	return r.g.Delete(ctx, id)
}

func (r *ApplicationRepository) ListWithDetailsByUser(ctx context.Context, userID uint64) ([]application.LoanApplication, error) {
	return r.g.Find(ctx, datastore.Query{
		Where:   []datastore.Filter{{Column: "user_id", Value: userID}},
		Preload: []string{"Detail"},
		OrderBy: "id ASC",
	})
}

type DetailRepository struct {
	g *Gateway[application.LoanDetail]
}

func NewDetailRepository(db *gorm.DB) *DetailRepository {
	return &DetailRepository{g: NewGateway[application.LoanDetail](db)}
}

func (r *DetailRepository) Create(ctx context.Context, d *application.LoanDetail) error {
	return r.g.Insert(ctx, d)
}
